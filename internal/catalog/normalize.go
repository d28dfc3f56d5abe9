package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
)

var (
	ErrNoProductID           = errors.New("product has no id")
	ErrNoLocalizedProperties = errors.New("product has no localized properties")
	ErrNoTitle               = errors.New("product has no usable title")
	ErrNoUsageData           = errors.New("product has no usage data")
)

// PosterImageIndex is the position of the poster art in LocalizedProperties.Images.
const PosterImageIndex = 4

// droppedFields never reach Game.Extra. Names are the flattened upstream keys.
var droppedFields = map[string]bool{
	"Franchises":                         true,
	"FriendlyTitle":                      true,
	"SearchTitles":                       true,
	"VoiceTitle":                         true,
	"RenderGroupDetails":                 true,
	"ProductDisplayRanks":                true,
	"Interactive3DEnabled":               true,
	"Language":                           true,
	"InteractiveModelConfig":             true,
	"EligibilityProperties.Affirmations": true,
	"EligibilityProperties.Remediations": true,
	"Markets":                            true,
	"Videos":                             true,
}

// consumedFields are mapped onto Game fields instead of Extra.
var consumedFields = map[string]bool{
	"DeveloperName":       true,
	"PublisherName":       true,
	"PublisherWebsiteUri": true,
	"SupportUri":          true,
	"ProductDescription":  true,
	"ShortDescription":    true,
	"ShortTitle":          true,
	"SortTitle":           true,
	"Images":              true,
}

type Product struct {
	ProductID           string           `json:"ProductId"`
	LastModifiedDate    string           `json:"LastModifiedDate"`
	LocalizedProperties []map[string]any `json:"LocalizedProperties"`
	MarketProperties    []MarketProperty `json:"MarketProperties"`
}

type MarketProperty struct {
	UsageData []UsageData `json:"UsageData"`
}

// UsageData entries are ordered oldest window first; the last one is all time.
type UsageData struct {
	AggregateTimeSpan string  `json:"AggregateTimeSpan"`
	AverageRating     float64 `json:"AverageRating"`
	RatingCount       float64 `json:"RatingCount"`
}

// ProductError identifies which product failed normalization.
type ProductError struct {
	Index     int
	ProductID string
	Err       error
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("normalize product %d (%s): %v", e.Index, e.ProductID, e.Err)
}

func (e *ProductError) Unwrap() error {
	return e.Err
}

// DecodeProducts decodes a bulk {"Products": [...]} payload.
func DecodeProducts(raw []byte) ([]Product, error) {
	var envelope struct {
		Products *[]Product `json:"Products"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if envelope.Products == nil {
		return nil, errors.New("decode products: missing Products field")
	}
	return *envelope.Products, nil
}

// Normalize turns a bulk payload into one Game per product, in input order.
// Any product that cannot be normalized fails the whole call.
func Normalize(raw []byte) ([]Game, error) {
	products, err := DecodeProducts(raw)
	if err != nil {
		return nil, err
	}
	games := make([]Game, 0, len(products))
	for i, p := range products {
		g, err := NormalizeProduct(p)
		if err != nil {
			return nil, &ProductError{Index: i, ProductID: p.ProductID, Err: err}
		}
		games = append(games, g)
	}
	return games, nil
}

func NormalizeProduct(p Product) (Game, error) {
	if strings.TrimSpace(p.ProductID) == "" {
		return Game{}, ErrNoProductID
	}
	lp, ok := First(p.LocalizedProperties)
	if !ok {
		return Game{}, ErrNoLocalizedProperties
	}

	flat := make(map[string]any)
	flatten("", lp, flat)

	g := Game{
		ID:               p.ProductID,
		DeveloperName:    stringField(flat, "DeveloperName"),
		PublisherName:    stringField(flat, "PublisherName"),
		PublisherWebsite: stringField(flat, "PublisherWebsiteUri"),
		SupportWebsite:   stringField(flat, "SupportUri"),
		Description:      stringField(flat, "ProductDescription"),
		ShortDescription: stringField(flat, "ShortDescription"),
	}

	g.ShortTitle = firstNonBlank(
		stringField(flat, "ShortTitle"),
		stringField(flat, "SortTitle"),
		stringField(flat, "ProductTitle"),
	)
	if g.ShortTitle == "" {
		return Game{}, ErrNoTitle
	}

	if s := strings.TrimSpace(p.LastModifiedDate); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return Game{}, fmt.Errorf("last modified date: %w", err)
		}
		g.LastModified = t.UTC()
	}

	usage, err := allTimeUsage(p.MarketProperties)
	if err != nil {
		return Game{}, err
	}
	g.UserRating = usage.AverageRating
	g.NUserRating = int(math.Round(usage.RatingCount))

	g.PosterURL = posterURL(lp["Images"])

	for k, v := range flat {
		if droppedFields[k] || consumedFields[k] {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		if g.Extra == nil {
			g.Extra = make(map[string]any)
		}
		g.Extra[SnakeCase(k)] = v
	}

	return g, nil
}

func allTimeUsage(markets []MarketProperty) (UsageData, error) {
	market, ok := First(markets)
	if !ok {
		return UsageData{}, fmt.Errorf("%w: no market properties", ErrNoUsageData)
	}
	usage, ok := Last(market.UsageData)
	if !ok {
		return UsageData{}, ErrNoUsageData
	}
	return usage, nil
}

func posterURL(images any) string {
	list, _ := images.([]any)
	img, ok := At(list, PosterImageIndex)
	if !ok {
		return ""
	}
	m, _ := img.(map[string]any)
	uri, _ := m["Uri"].(string)
	uri = strings.TrimSpace(uri)
	if strings.HasPrefix(uri, "//") {
		uri = "https:" + uri
	}
	return uri
}

// flatten copies nested objects into out with dot-joined keys. Arrays are
// kept as values.
func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && !droppedFields[key] {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SnakeCase converts PascalCase or camelCase keys to snake_case. Dotted path
// segments are converted independently.
func SnakeCase(s string) string {
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = strcase.ToSnake(p)
	}
	return strings.Join(parts, ".")
}
