package review

import (
	"context"
	"errors"
	"fmt"

	"passcritic/internal/platform/opencritic"
)

// MatchThreshold is the search distance at or above which a hit is no better
// than a guess.
const MatchThreshold = 0.5

var ErrNoMatch = errors.New("no search results")

type Searcher interface {
	Search(ctx context.Context, criteria string) ([]opencritic.SearchHit, error)
}

// Resolution is the outcome of a search that returned at least one hit.
// Accepted is false for an ambiguous match; ID and Distance still describe
// the best candidate.
type Resolution struct {
	Query    string
	ID       int
	Name     string
	Distance float64
	Accepted bool
}

type Resolver struct {
	searcher  Searcher
	threshold float64
}

func NewResolver(searcher Searcher) *Resolver {
	return &Resolver{searcher: searcher, threshold: MatchThreshold}
}

// Resolve looks name up once. Errors are ErrNoMatch or a wrapped transport
// failure; a low-confidence hit is not an error.
func (r *Resolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	hits, err := r.searcher.Search(ctx, name)
	if err != nil {
		return Resolution{}, fmt.Errorf("search %q: %w", name, err)
	}
	best, ok := firstHit(hits)
	if !ok {
		return Resolution{}, fmt.Errorf("search %q: %w", name, ErrNoMatch)
	}
	return Resolution{
		Query:    name,
		ID:       best.ID,
		Name:     best.Name,
		Distance: best.Dist,
		Accepted: best.Dist < r.threshold,
	}, nil
}

func firstHit(hits []opencritic.SearchHit) (opencritic.SearchHit, bool) {
	if len(hits) == 0 {
		return opencritic.SearchHit{}, false
	}
	return hits[0], true
}
