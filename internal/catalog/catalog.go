package catalog

import (
	"time"
)

// Game is one catalogue entry after normalization. Empty strings mean the
// upstream value was blank or missing.
type Game struct {
	ID               string         `json:"id"`
	ShortTitle       string         `json:"short_title"`
	DeveloperName    string         `json:"developer_name,omitempty"`
	PublisherName    string         `json:"publisher_name,omitempty"`
	PublisherWebsite string         `json:"publisher_website,omitempty"`
	SupportWebsite   string         `json:"support_website,omitempty"`
	Description      string         `json:"description,omitempty"`
	ShortDescription string         `json:"short_description,omitempty"`
	LastModified     time.Time      `json:"last_modified"`
	UserRating       float64        `json:"user_rating"`
	NUserRating      int            `json:"n_user_rating"`
	PosterURL        string         `json:"poster_url,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`
	Review           *Review        `json:"review,omitempty"`
}

// HasReview reports whether a review summary was attached.
func (g Game) HasReview() bool {
	return g.Review != nil
}

type Review struct {
	OpenCriticID       int       `json:"opencritic_id"`
	PercentRecommended float64   `json:"percent_recommended"`
	NumReviews         int       `json:"num_reviews"`
	MedianScore        int       `json:"median_score"`
	AverageScore       float64   `json:"average_score"`
	Percentile         int       `json:"percentile"`
	FirstReleased      time.Time `json:"first_released"`
}

// ReviewLink caches which OpenCritic id a catalogue product resolved to.
type ReviewLink struct {
	ProductID    string
	OpenCriticID int
	Distance     float64
	ResolvedAt   time.Time
}

const (
	ProviderGamePass   = "GAME_PASS"
	ProviderOpenCritic = "OPEN_CRITIC"
)
