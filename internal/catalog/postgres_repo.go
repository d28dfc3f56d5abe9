package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) InsertGame(ctx context.Context, runID string, g *Game) (int64, error) {
	extra, err := marshalExtra(g.Extra)
	if err != nil {
		return 0, err
	}

	const sql = `
		INSERT INTO games (run_id, product_id, short_title, developer_name, publisher_name, publisher_website,
			support_website, description, short_description, last_modified, user_rating, n_user_rating, poster_url, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	var id int64
	err = r.db.QueryRow(ctx, sql,
		runID, g.ID, g.ShortTitle, nullIfEmpty(g.DeveloperName), nullIfEmpty(g.PublisherName),
		nullIfEmpty(g.PublisherWebsite), nullIfEmpty(g.SupportWebsite), nullIfEmpty(g.Description),
		nullIfEmpty(g.ShortDescription), nullTime(g.LastModified), g.UserRating, g.NUserRating,
		nullIfEmpty(g.PosterURL), extra,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	return id, nil
}

func (r *PostgresRepo) InsertReview(ctx context.Context, gameRowID int64, rv *Review) error {
	const sql = `
		INSERT INTO reviews (game_id, opencritic_id, percent_recommended, num_reviews, median_score,
			average_score, percentile, first_released)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, sql, gameRowID, rv.OpenCriticID, rv.PercentRecommended, rv.NumReviews,
		rv.MedianScore, rv.AverageScore, rv.Percentile, nullTime(rv.FirstReleased))
	if err != nil {
		return fmt.Errorf("insert review for game %d: %w", gameRowID, err)
	}
	return nil
}

func (r *PostgresRepo) SaveSource(ctx context.Context, runID, provider string, rawJSON []byte) error {
	const sql = `
		INSERT INTO game_sources (run_id, provider, raw_json, fetched_at)
		VALUES ($1, $2, $3, now())`

	if _, err := r.db.Exec(ctx, sql, runID, provider, rawJSON); err != nil {
		return fmt.Errorf("save %s source: %w", provider, err)
	}
	return nil
}

func (r *PostgresRepo) GetReviewLink(ctx context.Context, productID string) (ReviewLink, error) {
	const sql = `
		SELECT product_id, opencritic_id, distance, resolved_at
		FROM review_links
		WHERE product_id = $1`

	var l ReviewLink
	err := r.db.QueryRow(ctx, sql, productID).Scan(&l.ProductID, &l.OpenCriticID, &l.Distance, &l.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReviewLink{}, ErrLinkNotFound
		}
		return ReviewLink{}, err
	}
	return l, nil
}

func (r *PostgresRepo) PutReviewLink(ctx context.Context, l ReviewLink) error {
	const sql = `
		INSERT INTO review_links (product_id, opencritic_id, distance, resolved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id) DO UPDATE SET
			opencritic_id = EXCLUDED.opencritic_id,
			distance = EXCLUDED.distance,
			resolved_at = EXCLUDED.resolved_at`

	_, err := r.db.Exec(ctx, sql, l.ProductID, l.OpenCriticID, l.Distance, l.ResolvedAt)
	return err
}

func (r *PostgresRepo) DeleteReviewLink(ctx context.Context, productID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM review_links WHERE product_id = $1", productID)
	return err
}

func (r *PostgresRepo) DeleteReviewLinks(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "DELETE FROM review_links")
	return err
}

func marshalExtra(extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("marshal extra fields: %w", err)
	}
	return b, nil
}
