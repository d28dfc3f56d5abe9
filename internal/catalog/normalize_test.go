package catalog

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"passcritic/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("maps fields and preserves order", func(t *testing.T) {
		raw := testutil.ProductsJSON(
			testutil.Product("B", "Beta"),
			testutil.Product("A", "Alpha", testutil.WithAllTimeRating(4.6, 99.6)),
		)

		games, err := Normalize(raw)
		require.NoError(t, err)
		require.Len(t, games, 2)

		assert.Equal(t, "B", games[0].ID)
		assert.Equal(t, "Alpha", games[1].ShortTitle)
		assert.Equal(t, 4.6, games[1].UserRating)
		assert.Equal(t, 100, games[1].NUserRating)

		g := games[0]
		assert.Equal(t, "Beta", g.ShortTitle)
		assert.Equal(t, "Dev B", g.DeveloperName)
		assert.Equal(t, "Pub B", g.PublisherName)
		assert.Equal(t, "https://pub.example.com", g.PublisherWebsite)
		assert.Equal(t, "https://support.example.com", g.SupportWebsite)
		assert.Equal(t, "Long description of Beta", g.Description)
		assert.Empty(t, g.ShortDescription)
		assert.Equal(t, 4.0, g.UserRating)
		assert.Equal(t, 1234, g.NUserRating)
		assert.Equal(t, "https://store-images.example.com/B/4.png", g.PosterURL)
		assert.Equal(t, time.Date(2023, 2, 14, 19, 59, 4, 558831200, time.UTC), g.LastModified)
		assert.Nil(t, g.Review)
	})

	t.Run("drops known fields and passes unknown ones through in snake case", func(t *testing.T) {
		raw := testutil.ProductsJSON(testutil.Product("A", "Alpha",
			testutil.WithLocalized("EligibilityProperties", map[string]any{
				"Affirmations": []any{},
				"Remediations": []any{},
				"IsTrial":      true,
			}),
			testutil.WithLocalized("NewUpstreamField", "kept"),
		))

		games, err := Normalize(raw)
		require.NoError(t, err)
		extra := games[0].Extra

		assert.Equal(t, "Alpha: Deluxe", extra["product_title"])
		assert.Equal(t, "kept", extra["new_upstream_field"])
		assert.Equal(t, true, extra["eligibility_properties.is_trial"])
		assert.Contains(t, extra, "cms_videos")

		for _, gone := range []string{
			"franchises", "search_titles", "videos", "language",
			"eligibility_properties.affirmations", "eligibility_properties.remediations",
			"images", "market_properties", "sort_title", "short_title", "short_description",
		} {
			assert.NotContains(t, extra, gone)
		}
	})

	t.Run("short title falls back to sort title", func(t *testing.T) {
		raw := testutil.ProductsJSON(testutil.Product("A", "",
			testutil.WithLocalized("ShortTitle", "   "),
			testutil.WithLocalized("SortTitle", "Sorted Title"),
		))

		games, err := Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, "Sorted Title", games[0].ShortTitle)
	})

	t.Run("no usable title fails", func(t *testing.T) {
		raw := testutil.ProductsJSON(testutil.Product("A", "",
			testutil.WithLocalized("ProductTitle", ""),
		))

		_, err := Normalize(raw)
		assert.True(t, errors.Is(err, ErrNoTitle))
	})

	t.Run("short image list gives no poster", func(t *testing.T) {
		raw := testutil.ProductsJSON(
			testutil.Product("A", "Alpha", testutil.WithImages(4)),
			testutil.Product("B", "Beta", testutil.WithImages(0)),
		)

		games, err := Normalize(raw)
		require.NoError(t, err)
		assert.Empty(t, games[0].PosterURL)
		assert.Empty(t, games[1].PosterURL)
	})

	t.Run("empty usage data fails explicitly", func(t *testing.T) {
		raw := testutil.ProductsJSON(
			testutil.Product("A", "Alpha"),
			testutil.Product("B", "Beta", testutil.WithUsageData()),
		)

		games, err := Normalize(raw)
		require.Error(t, err)
		assert.Nil(t, games)
		assert.True(t, errors.Is(err, ErrNoUsageData))

		var pe *ProductError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 1, pe.Index)
		assert.Equal(t, "B", pe.ProductID)
	})

	t.Run("missing localized properties fails", func(t *testing.T) {
		p := testutil.Product("A", "Alpha")
		p["LocalizedProperties"] = []any{}

		_, err := Normalize(testutil.ProductsJSON(p))
		assert.True(t, errors.Is(err, ErrNoLocalizedProperties))
	})

	t.Run("missing envelope fails", func(t *testing.T) {
		_, err := Normalize([]byte(`{"Items":[]}`))
		assert.Error(t, err)

		_, err = Normalize([]byte(`not json`))
		assert.Error(t, err)
	})

	t.Run("deterministic", func(t *testing.T) {
		raw := testutil.ProductsJSON(
			testutil.Product("A", "Alpha"),
			testutil.Product("B", "Beta"),
			testutil.Product("C", "Gamma", testutil.WithImages(2)),
		)

		first, err := Normalize(raw)
		require.NoError(t, err)
		second, err := Normalize(raw)
		require.NoError(t, err)

		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		assert.Equal(t, string(a), string(b))
		assert.Len(t, first, 3)
	})
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"ShortTitle":                         "short_title",
		"PublisherWebsiteUri":                "publisher_website_uri",
		"CMSVideos":                          "cms_videos",
		"ProductId":                          "product_id",
		"percentRecommended":                 "percent_recommended",
		"EligibilityProperties.Affirmations": "eligibility_properties.affirmations",
		"already_snake":                      "already_snake",
		"IsPCGame":                           "is_pc_game",
		"Interactive3DEnabled":               "interactive_3_d_enabled",
		"MS-CV":                              "ms_cv",
	}
	for in, want := range cases {
		assert.Equal(t, want, SnakeCase(in), in)
	}
}

func TestAccessors(t *testing.T) {
	s := []int{1, 2, 3}

	v, ok := Last(s)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = Last([]int{})
	assert.False(t, ok)

	v, ok = First(s)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = At(s, 4)
	assert.False(t, ok)
	_, ok = At(s, -1)
	assert.False(t, ok)
}
