package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteRepo stores timestamps as RFC 3339 text.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

func (r *SQLiteRepo) InsertGame(ctx context.Context, runID string, g *Game) (int64, error) {
	extra, err := marshalExtra(g.Extra)
	if err != nil {
		return 0, err
	}
	var extraText any
	if extra != nil {
		extraText = string(extra)
	}

	const query = `
		INSERT INTO games (run_id, product_id, short_title, developer_name, publisher_name, publisher_website,
			support_website, description, short_description, last_modified, user_rating, n_user_rating, poster_url, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		runID, g.ID, g.ShortTitle, nullIfEmpty(g.DeveloperName), nullIfEmpty(g.PublisherName),
		nullIfEmpty(g.PublisherWebsite), nullIfEmpty(g.SupportWebsite), nullIfEmpty(g.Description),
		nullIfEmpty(g.ShortDescription), timeText(g.LastModified), g.UserRating, g.NUserRating,
		nullIfEmpty(g.PosterURL), extraText,
	)
	if err != nil {
		return 0, fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) InsertReview(ctx context.Context, gameRowID int64, rv *Review) error {
	const query = `
		INSERT INTO reviews (game_id, opencritic_id, percent_recommended, num_reviews, median_score,
			average_score, percentile, first_released)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, gameRowID, rv.OpenCriticID, rv.PercentRecommended, rv.NumReviews,
		rv.MedianScore, rv.AverageScore, rv.Percentile, timeText(rv.FirstReleased))
	if err != nil {
		return fmt.Errorf("insert review for game %d: %w", gameRowID, err)
	}
	return nil
}

func (r *SQLiteRepo) SaveSource(ctx context.Context, runID, provider string, rawJSON []byte) error {
	const query = `
		INSERT INTO game_sources (run_id, provider, raw_json, fetched_at)
		VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, runID, provider, string(rawJSON), timeText(time.Now())); err != nil {
		return fmt.Errorf("save %s source: %w", provider, err)
	}
	return nil
}

func (r *SQLiteRepo) GetReviewLink(ctx context.Context, productID string) (ReviewLink, error) {
	const query = `
		SELECT product_id, opencritic_id, distance, resolved_at
		FROM review_links
		WHERE product_id = ?`

	var (
		l          ReviewLink
		resolvedAt string
	)
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&l.ProductID, &l.OpenCriticID, &l.Distance, &resolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReviewLink{}, ErrLinkNotFound
		}
		return ReviewLink{}, err
	}
	if l.ResolvedAt, err = time.Parse(time.RFC3339Nano, resolvedAt); err != nil {
		return ReviewLink{}, fmt.Errorf("parse resolved_at for %s: %w", productID, err)
	}
	return l, nil
}

func (r *SQLiteRepo) PutReviewLink(ctx context.Context, l ReviewLink) error {
	const query = `
		INSERT INTO review_links (product_id, opencritic_id, distance, resolved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (product_id) DO UPDATE SET
			opencritic_id = excluded.opencritic_id,
			distance = excluded.distance,
			resolved_at = excluded.resolved_at`

	_, err := r.db.ExecContext(ctx, query, l.ProductID, l.OpenCriticID, l.Distance, l.ResolvedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (r *SQLiteRepo) DeleteReviewLink(ctx context.Context, productID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM review_links WHERE product_id = ?", productID)
	return err
}

func (r *SQLiteRepo) DeleteReviewLinks(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM review_links")
	return err
}

func timeText(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
