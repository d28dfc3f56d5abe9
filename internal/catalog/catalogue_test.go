package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue(t *testing.T) {
	c := NewCatalogue()
	require.NoError(t, c.Add(Game{ID: "1", ShortTitle: "Doom"}))
	require.NoError(t, c.Add(Game{ID: "2", ShortTitle: "Halo"}))
	require.NoError(t, c.Add(Game{ID: "3", ShortTitle: "Doom"}))

	t.Run("keyed by id, not title", func(t *testing.T) {
		assert.Equal(t, 3, c.Len())
		g, ok := c.Get("3")
		require.True(t, ok)
		assert.Equal(t, "Doom", g.ShortTitle)
		assert.Len(t, c.ByTitle("Doom"), 2)
	})

	t.Run("reports title collisions", func(t *testing.T) {
		assert.Equal(t, map[string][]string{"Doom": {"1", "3"}}, c.Collisions())
		assert.Equal(t, []string{"Doom"}, c.CollidingTitles())
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		err := c.Add(Game{ID: "2", ShortTitle: "Other"})
		assert.True(t, errors.Is(err, ErrDuplicateID))
		assert.Equal(t, 3, c.Len())
	})

	t.Run("attaches reviews in place", func(t *testing.T) {
		assert.True(t, c.AttachReview("2", &Review{AverageScore: 87}))
		assert.False(t, c.AttachReview("missing", &Review{}))

		g, _ := c.Get("2")
		require.True(t, g.HasReview())
		assert.Equal(t, 87.0, g.Review.AverageScore)

		games := c.Games()
		games[0].ShortTitle = "mutated"
		first, _ := c.Get("1")
		assert.Equal(t, "Doom", first.ShortTitle)
	})
}
