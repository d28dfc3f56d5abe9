package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	t.Run("keeps existing query", func(t *testing.T) {
		got, err := BuildURL("https://example.com/sigls/v2?id=abc&market=US", url.Values{"language": {"en-us"}})
		require.NoError(t, err)

		u, _ := url.Parse(got)
		assert.Equal(t, "abc", u.Query().Get("id"))
		assert.Equal(t, "US", u.Query().Get("market"))
		assert.Equal(t, "en-us", u.Query().Get("language"))
	})

	t.Run("params override existing keys", func(t *testing.T) {
		got, err := BuildURL("https://example.com/p?market=US", url.Values{"market": {"GB"}})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/p?market=GB", got)
	})

	t.Run("escapes free text", func(t *testing.T) {
		got, err := BuildURL("https://example.com/search", url.Values{"criteria": {"Halo: Infinite & more"}})
		require.NoError(t, err)
		u, _ := url.Parse(got)
		assert.Equal(t, "Halo: Infinite & more", u.Query().Get("criteria"))
	})
}

func TestClient_GetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes body and sends user agent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "passcritic-test", r.Header.Get("User-Agent"))
			assert.Equal(t, "fallout", r.URL.Query().Get("criteria"))
			_, _ = w.Write([]byte(`{"name":"ok"}`))
		}))
		defer srv.Close()

		c := NewClient(Options{UserAgent: "passcritic-test"})
		var out struct {
			Name string `json:"name"`
		}
		err := c.GetJSON(ctx, srv.URL, url.Values{"criteria": {"fallout"}}, &out)
		require.NoError(t, err)
		assert.Equal(t, "ok", out.Name)
	})

	t.Run("non 2xx is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(Options{})
		var out map[string]any
		err := c.GetJSON(ctx, srv.URL, nil, &out)
		require.Error(t, err)

		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, http.StatusBadGateway, te.StatusCode)
		assert.True(t, IsTransport(err))
	})

	t.Run("connection failure is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := srv.URL
		srv.Close()

		c := NewClient(Options{})
		_, err := c.GetRaw(ctx, addr, nil)
		require.Error(t, err)
		assert.True(t, IsTransport(err))
	})

	t.Run("bad json is not a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}))
		defer srv.Close()

		c := NewClient(Options{})
		var out map[string]any
		err := c.GetJSON(ctx, srv.URL, nil, &out)
		require.Error(t, err)
		assert.False(t, IsTransport(err))
	})

	t.Run("single attempt", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(Options{RequestsPerSecond: 50})
		_, err := c.GetRaw(ctx, srv.URL, nil)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
