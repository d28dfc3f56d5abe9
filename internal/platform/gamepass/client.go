package gamepass

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"passcritic/internal/platform/fetch"
)

const (
	DefaultCatalogueURL = "https://catalog.gamepass.com/sigls/v2?id=29a81209-df6f-41fd-a528-2ae6b91f719c&language=en-us&market=US"
	DefaultProductsURL  = "https://displaycatalog.mp.microsoft.com/v7.0/products"
)

// Getter is the transport the client needs. *fetch.Client satisfies it.
type Getter interface {
	GetJSON(ctx context.Context, rawURL string, params url.Values, target any) error
	GetRaw(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

var _ Getter = (*fetch.Client)(nil)

type Config struct {
	CatalogueURL string
	ProductsURL  string
	Market       string
	Language     string
}

type Client struct {
	getter Getter
	cfg    Config
}

func NewClient(getter Getter, cfg Config) *Client {
	if cfg.CatalogueURL == "" {
		cfg.CatalogueURL = DefaultCatalogueURL
	}
	if cfg.ProductsURL == "" {
		cfg.ProductsURL = DefaultProductsURL
	}
	if cfg.Market == "" {
		cfg.Market = "US"
	}
	if cfg.Language == "" {
		cfg.Language = "en-us"
	}
	return &Client{getter: getter, cfg: cfg}
}

// ListingEntry is one element of the sigls listing. The first element of the
// listing is a metadata object and decodes with an empty ID.
type ListingEntry struct {
	ID          string `json:"id"`
	SiglID      string `json:"siglId,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Listing returns the raw listing, metadata element included.
func (c *Client) Listing(ctx context.Context) ([]ListingEntry, error) {
	var res []ListingEntry
	if err := c.getter.GetJSON(ctx, c.cfg.CatalogueURL, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Products fetches bulk product info for ids in one request and returns the
// undecoded {"Products": [...]} body.
func (c *Client) Products(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, errors.New("gamepass: no product ids")
	}
	params := url.Values{
		"bigIds":    {strings.Join(ids, ",")},
		"market":    {c.cfg.Market},
		"languages": {c.cfg.Language},
		"MS-CV":     {"DGU1mcuYo0WMM"},
	}
	return c.getter.GetRaw(ctx, c.cfg.ProductsURL, params)
}
