package catalog

import (
	"context"
	"errors"
	"time"
)

var ErrLinkNotFound = errors.New("review link not found")

// Store persists the records of one run. Games and reviews are only ever
// inserted; review links are the one mutable table.
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks passcritic/internal/catalog Store
type Store interface {
	InsertGame(ctx context.Context, runID string, g *Game) (int64, error)
	InsertReview(ctx context.Context, gameRowID int64, r *Review) error
	SaveSource(ctx context.Context, runID, provider string, rawJSON []byte) error
	GetReviewLink(ctx context.Context, productID string) (ReviewLink, error)
	PutReviewLink(ctx context.Context, link ReviewLink) error
	DeleteReviewLink(ctx context.Context, productID string) error
	DeleteReviewLinks(ctx context.Context) error
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
