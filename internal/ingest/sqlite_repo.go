package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

func (r *SQLiteRepo) CreateRun(ctx context.Context, run *Run) error {
	const query = `
		INSERT INTO pipeline_runs (id, started_at, status, top_n, workers)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Status, run.TopN, run.Workers)
	return err
}

func (r *SQLiteRepo) FinishRun(ctx context.Context, run *Run) error {
	skipped, err := json.Marshal(run.Skipped)
	if err != nil {
		return err
	}
	var finishedAt any
	if run.FinishedAt != nil {
		finishedAt = run.FinishedAt.UTC().Format(time.RFC3339Nano)
	}

	const query = `
		UPDATE pipeline_runs SET
			finished_at = ?,
			status = ?,
			games_listed = ?,
			games_normalized = ?,
			reviews_attached = ?,
			skipped = ?,
			error = ?
		WHERE id = ?`

	_, err = r.db.ExecContext(ctx, query, finishedAt, run.Status, run.GamesListed, run.GamesNormalized,
		run.ReviewsAttached, string(skipped), run.Error, run.ID)
	return err
}
