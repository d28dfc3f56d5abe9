package review

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"passcritic/internal/platform/fetch"
	"passcritic/internal/platform/opencritic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, criteria string) ([]opencritic.SearchHit, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]opencritic.SearchHit), args.Error(1)
}

type mockGameGetter struct {
	mock.Mock
}

func (m *mockGameGetter) Game(ctx context.Context, id int) (map[string]json.RawMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]json.RawMessage), args.Error(1)
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		dist     float64
		accepted bool
	}{
		{"exact", 0, true},
		{"close", 0.49, true},
		{"boundary is not a match", 0.5, false},
		{"far", 0.8, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := new(mockSearcher)
			s.On("Search", ctx, "Halo").Return([]opencritic.SearchHit{
				{ID: 42, Name: "Halo", Dist: tc.dist},
				{ID: 43, Name: "Halo 2", Dist: 0.01},
			}, nil)

			res, err := NewResolver(s).Resolve(ctx, "Halo")
			require.NoError(t, err)
			assert.Equal(t, tc.accepted, res.Accepted)
			assert.Equal(t, 42, res.ID)
			assert.Equal(t, "Halo", res.Query)
			assert.Equal(t, tc.dist, res.Distance)
			s.AssertNumberOfCalls(t, "Search", 1)
		})
	}

	t.Run("empty result list", func(t *testing.T) {
		s := new(mockSearcher)
		s.On("Search", ctx, "Nothing").Return([]opencritic.SearchHit{}, nil)

		_, err := NewResolver(s).Resolve(ctx, "Nothing")
		assert.True(t, errors.Is(err, ErrNoMatch))
	})

	t.Run("transport failure is wrapped, not retried", func(t *testing.T) {
		s := new(mockSearcher)
		s.On("Search", ctx, "Halo").Return(nil, &fetch.TransportError{URL: "x", StatusCode: 503})

		_, err := NewResolver(s).Resolve(ctx, "Halo")
		require.Error(t, err)
		assert.True(t, fetch.IsTransport(err))
		assert.False(t, errors.Is(err, ErrNoMatch))
		s.AssertNumberOfCalls(t, "Search", 1)
	})
}

func reviewPayload(t *testing.T, overrides map[string]any) map[string]json.RawMessage {
	t.Helper()
	body := map[string]any{
		"name":               "Halo",
		"percentRecommended": 93.5,
		"numReviews":         120,
		"medianScore":        88,
		"averageScore":       87.25,
		"percentile":         91,
		"firstReleaseDate":   "2021-12-08T00:00:00.000Z",
		"Platforms":          []any{map[string]any{"name": "Xbox"}},
		"Genres":             []any{},
	}
	for k, v := range overrides {
		if v == nil {
			delete(body, k)
			continue
		}
		body[k] = v
	}
	b, err := json.Marshal(body)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	return raw
}

func TestFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("projects fixed fields", func(t *testing.T) {
		g := new(mockGameGetter)
		g.On("Game", ctx, 42).Return(reviewPayload(t, nil), nil)

		rv, err := NewFetcher(g).Fetch(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 42, rv.OpenCriticID)
		assert.Equal(t, 93.5, rv.PercentRecommended)
		assert.Equal(t, 120, rv.NumReviews)
		assert.Equal(t, 88, rv.MedianScore)
		assert.Equal(t, 87.25, rv.AverageScore)
		assert.Equal(t, 91, rv.Percentile)
		assert.Equal(t, time.Date(2021, 12, 8, 0, 0, 0, 0, time.UTC), rv.FirstReleased)
	})

	t.Run("integral floats are accepted for int fields", func(t *testing.T) {
		g := new(mockGameGetter)
		g.On("Game", ctx, 1).Return(reviewPayload(t, map[string]any{"medianScore": json.Number("88.0")}), nil)

		rv, err := NewFetcher(g).Fetch(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 88, rv.MedianScore)
	})

	for _, key := range []string{"percentRecommended", "numReviews", "medianScore", "averageScore", "percentile", "firstReleaseDate"} {
		t.Run("missing "+key, func(t *testing.T) {
			g := new(mockGameGetter)
			g.On("Game", ctx, 1).Return(reviewPayload(t, map[string]any{key: nil}), nil)

			rv, err := NewFetcher(g).Fetch(ctx, 1)
			assert.Nil(t, rv)
			assert.True(t, errors.Is(err, ErrMissing))
		})
	}

	t.Run("wrong type is missing", func(t *testing.T) {
		g := new(mockGameGetter)
		g.On("Game", ctx, 1).Return(reviewPayload(t, map[string]any{"averageScore": "high"}), nil)

		_, err := NewFetcher(g).Fetch(ctx, 1)
		assert.True(t, errors.Is(err, ErrMissing))
	})

	t.Run("transport failure", func(t *testing.T) {
		g := new(mockGameGetter)
		g.On("Game", ctx, 1).Return(nil, &fetch.TransportError{URL: "x", StatusCode: 500})

		_, err := NewFetcher(g).Fetch(ctx, 1)
		assert.True(t, fetch.IsTransport(err))
		assert.False(t, errors.Is(err, ErrMissing))
	})
}
