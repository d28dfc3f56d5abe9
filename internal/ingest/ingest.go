package ingest

import (
	"time"

	"passcritic/internal/catalog"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Reasons a game is left out of the ranked report.
const (
	ReasonNormalize     = "normalize"
	ReasonDuplicateID   = "duplicate_id"
	ReasonNoMatch       = "no_match"
	ReasonLowConfidence = "low_confidence"
	ReasonTransport     = "transport"
	ReasonMissing       = "missing"
	ReasonDecode        = "decode"
)

type Run struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      *time.Time
	Status          string // RUNNING, COMPLETED, FAILED
	TopN            int
	Workers         int
	GamesListed     int
	GamesNormalized int
	ReviewsAttached int
	Skipped         map[string]int
	Error           string
}

// Report is what a completed run produces.
type Report struct {
	RunID             string              `json:"run_id"`
	GeneratedAt       time.Time           `json:"generated_at"`
	CatalogueSize     int                 `json:"catalogue_size"`
	AverageUserRating float64             `json:"average_user_rating"`
	Top               []catalog.Game      `json:"top"`
	Skipped           map[string]int      `json:"skipped,omitempty"`
	Collisions        map[string][]string `json:"title_collisions,omitempty"`
}
