package gamepass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"passcritic/internal/platform/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Listing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "29a81209", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`[{"siglId":"29a81209","title":"All PC games"},{"id":"9NBLGGH4R315"},{"id":"9P4D0K92BM7V"}]`))
	}))
	defer srv.Close()

	c := NewClient(fetch.NewClient(fetch.Options{}), Config{CatalogueURL: srv.URL + "/sigls/v2?id=29a81209"})
	entries, err := c.Listing(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Empty(t, entries[0].ID)
	assert.Equal(t, "29a81209", entries[0].SiglID)
	assert.Equal(t, "9NBLGGH4R315", entries[1].ID)
}

func TestClient_Products(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "A,B,C", q.Get("bigIds"))
		assert.Equal(t, "US", q.Get("market"))
		assert.Equal(t, "en-us", q.Get("languages"))
		_, _ = w.Write([]byte(`{"Products":[]}`))
	}))
	defer srv.Close()

	c := NewClient(fetch.NewClient(fetch.Options{}), Config{ProductsURL: srv.URL})

	body, err := c.Products(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Products":[]}`, string(body))

	_, err = c.Products(context.Background(), nil)
	assert.Error(t, err)
}
