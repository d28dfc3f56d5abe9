package ingest

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RunRepository interface {
	CreateRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, run *Run) error
}

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const sql = `
		INSERT INTO pipeline_runs (id, started_at, status, top_n, workers)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, sql, run.ID, run.StartedAt, run.Status, run.TopN, run.Workers)
	return err
}

func (r *PostgresRepo) FinishRun(ctx context.Context, run *Run) error {
	skipped, err := json.Marshal(run.Skipped)
	if err != nil {
		return err
	}

	const sql = `
		UPDATE pipeline_runs SET
			finished_at = $1,
			status = $2,
			games_listed = $3,
			games_normalized = $4,
			reviews_attached = $5,
			skipped = $6,
			error = $7
		WHERE id = $8`

	_, err = r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.GamesListed, run.GamesNormalized,
		run.ReviewsAttached, skipped, run.Error, run.ID)
	return err
}
