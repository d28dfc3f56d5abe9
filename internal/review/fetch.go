package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"passcritic/internal/catalog"
)

// ErrMissing means the review payload lacked one of the projected fields.
var ErrMissing = errors.New("review fields missing")

type GameGetter interface {
	Game(ctx context.Context, id int) (map[string]json.RawMessage, error)
}

type Fetcher struct {
	games GameGetter
}

func NewFetcher(games GameGetter) *Fetcher {
	return &Fetcher{games: games}
}

// Fetch returns the review summary for an OpenCritic id. Fields outside the
// summary are discarded.
func (f *Fetcher) Fetch(ctx context.Context, id int) (*catalog.Review, error) {
	raw, err := f.games.Game(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch review %d: %w", id, err)
	}
	rv, err := project(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch review %d: %w", id, err)
	}
	rv.OpenCriticID = id
	return rv, nil
}

func project(raw map[string]json.RawMessage) (*catalog.Review, error) {
	var (
		rv       catalog.Review
		released string
	)
	floats := []struct {
		key string
		dst *float64
	}{
		{"percentRecommended", &rv.PercentRecommended},
		{"averageScore", &rv.AverageScore},
	}
	for _, f := range floats {
		v, err := number(raw, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"numReviews", &rv.NumReviews},
		{"medianScore", &rv.MedianScore},
		{"percentile", &rv.Percentile},
	}
	for _, f := range ints {
		v, err := number(raw, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = int(math.Round(v))
	}

	if err := field(raw, "firstReleaseDate", &released); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, released)
	if err != nil {
		return nil, fmt.Errorf("%w: firstReleaseDate %q", ErrMissing, released)
	}
	rv.FirstReleased = t.UTC()

	return &rv, nil
}

func number(raw map[string]json.RawMessage, key string) (float64, error) {
	var v float64
	err := field(raw, key, &v)
	return v, err
}

func field(raw map[string]json.RawMessage, key string, dst any) error {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return fmt.Errorf("%w: %s", ErrMissing, key)
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissing, key, err)
	}
	return nil
}
