package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ProductOption customises a fixture built by Product.
type ProductOption func(p map[string]any)

// Product builds one display catalogue product in the upstream shape:
// LocalizedProperties[0] carries titles and images, MarketProperties[0]
// carries UsageData ordered 7 days, 30 days, all time.
func Product(id, shortTitle string, opts ...ProductOption) map[string]any {
	images := make([]any, 0, 6)
	for i := 0; i < 6; i++ {
		images = append(images, map[string]any{
			"ImagePurpose": fmt.Sprintf("Purpose%d", i),
			"Uri":          fmt.Sprintf("//store-images.example.com/%s/%d.png", id, i),
		})
	}

	p := map[string]any{
		"ProductId":        id,
		"LastModifiedDate": "2023-02-14T19:59:04.5588312Z",
		"LocalizedProperties": []any{
			map[string]any{
				"DeveloperName":       "Dev " + id,
				"PublisherName":       "Pub " + id,
				"PublisherWebsiteUri": "https://pub.example.com",
				"SupportUri":          "https://support.example.com",
				"ProductDescription":  "Long description of " + shortTitle,
				"ShortDescription":    "",
				"ProductTitle":        shortTitle + ": Deluxe",
				"ShortTitle":          shortTitle,
				"SortTitle":           shortTitle,
				"Franchises":          []any{},
				"SearchTitles":        []any{map[string]any{"SearchTitleString": shortTitle}},
				"Videos":              []any{},
				"Language":            "en-us",
				"Images":              images,
				"EligibilityProperties": map[string]any{
					"Remediations": []any{},
					"Affirmations": []any{},
				},
				"CMSVideos": []any{},
			},
		},
		"MarketProperties": []any{
			map[string]any{
				"UsageData": []any{
					usage("7Days", 3.1, 10),
					usage("30Days", 3.9, 120),
					usage("AllTime", 4.0, 1234),
				},
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func usage(span string, rating, count float64) map[string]any {
	return map[string]any{
		"AggregateTimeSpan": span,
		"AverageRating":     rating,
		"PlayCount":         0,
		"RatingCount":       count,
		"RentalCount":       "0",
		"TrialCount":        "0",
		"PurchaseCount":     "0",
	}
}

func localized(p map[string]any) map[string]any {
	return p["LocalizedProperties"].([]any)[0].(map[string]any)
}

// WithAllTimeRating replaces the all time UsageData entry.
func WithAllTimeRating(rating, count float64) ProductOption {
	return func(p map[string]any) {
		market := p["MarketProperties"].([]any)[0].(map[string]any)
		data := market["UsageData"].([]any)
		data[len(data)-1] = usage("AllTime", rating, count)
	}
}

// WithUsageData replaces UsageData; pass nothing for an empty array.
func WithUsageData(entries ...map[string]any) ProductOption {
	return func(p map[string]any) {
		data := make([]any, 0, len(entries))
		for _, e := range entries {
			data = append(data, e)
		}
		p["MarketProperties"].([]any)[0].(map[string]any)["UsageData"] = data
	}
}

// WithImages truncates the image list to n entries.
func WithImages(n int) ProductOption {
	return func(p map[string]any) {
		lp := localized(p)
		lp["Images"] = lp["Images"].([]any)[:n]
	}
}

// WithLocalized sets a LocalizedProperties field.
func WithLocalized(key string, value any) ProductOption {
	return func(p map[string]any) {
		localized(p)[key] = value
	}
}

// ProductsJSON wraps products in the bulk endpoint envelope.
func ProductsJSON(products ...map[string]any) []byte {
	b, err := json.Marshal(map[string]any{"Products": products})
	if err != nil {
		panic(err)
	}
	return b
}

// ListingJSON builds a sigls listing with its leading metadata element.
func ListingJSON(ids ...string) []byte {
	entries := []any{map[string]any{
		"siglId":      "29a81209-df6f-41fd-a528-2ae6b91f719c",
		"title":       "Game Pass",
		"description": "metadata",
	}}
	for _, id := range ids {
		entries = append(entries, map[string]any{"id": id})
	}
	b, _ := json.Marshal(entries)
	return b
}

// JSONServer serves fixed JSON bodies by path and counts hits.
type JSONServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

func NewJSONServer(t *testing.T) *JSONServer {
	s := &JSONServer{
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *JSONServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	h, ok := s.routes[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// Handle registers a handler for path.
func (s *JSONServer) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = h
}

// JSON serves body for path. body may be []byte or any JSON-encodable value.
func (s *JSONServer) JSON(path string, body any) {
	raw, ok := body.([]byte)
	if !ok {
		var err error
		if raw, err = json.Marshal(body); err != nil {
			panic(err)
		}
	}
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	})
}

// Status makes path answer with an empty body and code.
func (s *JSONServer) Status(path string, code int) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

func (s *JSONServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}
