package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"passcritic/internal/catalog"
	"passcritic/internal/platform/fetch"
	"passcritic/internal/platform/gamepass"
	"passcritic/internal/review"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyCatalogue = errors.New("catalogue is empty")

type Config struct {
	TopN         int
	Workers      int
	RefreshLinks bool
}

type CatalogueSource interface {
	Listing(ctx context.Context) ([]gamepass.ListingEntry, error)
	Products(ctx context.Context, ids []string) ([]byte, error)
}

type ReviewResolver interface {
	Resolve(ctx context.Context, name string) (review.Resolution, error)
}

type ReviewFetcher interface {
	Fetch(ctx context.Context, id int) (*catalog.Review, error)
}

type Service struct {
	source   CatalogueSource
	resolver ReviewResolver
	fetcher  ReviewFetcher
	store    catalog.Store
	runs     RunRepository
	cfg      Config
	now      func() time.Time
}

// NewService wires the pipeline. store and runs may be nil, in which case
// nothing is persisted and review links are always resolved afresh.
func NewService(source CatalogueSource, resolver ReviewResolver, fetcher ReviewFetcher, store catalog.Store, runs RunRepository, cfg Config) *Service {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.TopN < 0 {
		cfg.TopN = 0
	}
	return &Service{
		source:   source,
		resolver: resolver,
		fetcher:  fetcher,
		store:    store,
		runs:     runs,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ListIdentifiers returns catalogue product ids in listing order. The first
// listing element is metadata and is never returned.
func (s *Service) ListIdentifiers(ctx context.Context) ([]string, error) {
	entries, err := s.source.Listing(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalogue: %w", err)
	}
	if len(entries) < 2 {
		return nil, ErrEmptyCatalogue
	}

	seen := make(map[string]bool, len(entries))
	ids := make([]string, 0, len(entries)-1)
	for _, e := range entries[1:] {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		ids = append(ids, e.ID)
	}
	if len(ids) == 0 {
		return nil, ErrEmptyCatalogue
	}
	return ids, nil
}

// BuildCatalogue lists the catalogue and normalizes it from one bulk request.
func (s *Service) BuildCatalogue(ctx context.Context) (*catalog.Catalogue, error) {
	ids, err := s.ListIdentifiers(ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.buildCatalogue(ctx, ids)
	if err != nil {
		return nil, err
	}
	return b.catalogue, nil
}

type built struct {
	catalogue *catalog.Catalogue
	raw       []byte
	skipped   map[string]int
}

func (s *Service) buildCatalogue(ctx context.Context, ids []string) (*built, error) {
	raw, err := s.source.Products(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("bulk fetch %d products: %w", len(ids), err)
	}
	products, err := catalog.DecodeProducts(raw)
	if err != nil {
		return nil, err
	}

	b := &built{catalogue: catalog.NewCatalogue(), raw: raw, skipped: make(map[string]int)}
	for i, p := range products {
		g, err := catalog.NormalizeProduct(p)
		if err != nil {
			log.Printf("normalize skip index=%d product=%s err=%v", i, p.ProductID, err)
			b.skipped[ReasonNormalize]++
			continue
		}
		if err := b.catalogue.Add(g); err != nil {
			log.Printf("normalize skip index=%d product=%s err=%v", i, p.ProductID, err)
			b.skipped[ReasonDuplicateID]++
		}
	}
	if b.catalogue.Len() == 0 {
		return nil, ErrEmptyCatalogue
	}
	return b, nil
}

// State of a game after the review pass.
type State string

const (
	StateReviewResolved State = "REVIEW_RESOLVED"
	StateReviewAbsent   State = "REVIEW_ABSENT"
)

// Outcome records what happened to one game during enrichment.
type Outcome struct {
	ProductID string
	Title     string
	State     State
	Reason    string
	Cached    bool
	Err       error
}

type EnrichResult struct {
	Outcomes []Outcome
	Attached int
	Skipped  map[string]int
}

// EnrichWithReviews resolves and fetches a review for every game and
// attaches it to cat. Per-game failures are recorded in the result; the pass
// itself never fails.
func (s *Service) EnrichWithReviews(ctx context.Context, cat *catalog.Catalogue) EnrichResult {
	games := cat.Games()
	outcomes := make([]Outcome, len(games))
	reviews := make([]*catalog.Review, len(games))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, game := range games {
		i, game := i, game
		g.Go(func() error {
			reviews[i], outcomes[i] = s.enrichOne(gctx, game)
			return nil
		})
	}
	_ = g.Wait()

	res := EnrichResult{Outcomes: outcomes, Skipped: make(map[string]int)}
	for i, o := range outcomes {
		if o.State == StateReviewResolved {
			cat.AttachReview(o.ProductID, reviews[i])
			res.Attached++
			continue
		}
		cat.AttachReview(o.ProductID, nil)
		res.Skipped[o.Reason]++
	}
	return res
}

func (s *Service) enrichOne(ctx context.Context, g catalog.Game) (*catalog.Review, Outcome) {
	out := Outcome{ProductID: g.ID, Title: g.ShortTitle, State: StateReviewAbsent}

	var (
		id       int
		distance float64
	)
	if link, ok := s.cachedLink(ctx, g.ID); ok {
		id, distance, out.Cached = link.OpenCriticID, link.Distance, true
	} else {
		res, err := s.resolver.Resolve(ctx, g.ShortTitle)
		if err != nil {
			out.Reason, out.Err = reasonFor(err), err
			log.Printf("review skip product=%s title=%q reason=%s err=%v", g.ID, g.ShortTitle, out.Reason, err)
			return nil, out
		}
		if !res.Accepted {
			out.Reason = ReasonLowConfidence
			log.Printf("review skip product=%s title=%q reason=%s candidate=%d dist=%.3f",
				g.ID, g.ShortTitle, out.Reason, res.ID, res.Distance)
			return nil, out
		}
		id, distance = res.ID, res.Distance
	}

	rv, err := s.fetcher.Fetch(ctx, id)
	if err != nil {
		out.Reason, out.Err = reasonFor(err), err
		log.Printf("review skip product=%s title=%q opencritic_id=%d reason=%s err=%v", g.ID, g.ShortTitle, id, out.Reason, err)
		if out.Cached && errors.Is(err, review.ErrMissing) {
			s.invalidateLink(ctx, g.ID)
		}
		return nil, out
	}

	if !out.Cached && s.store != nil {
		link := catalog.ReviewLink{ProductID: g.ID, OpenCriticID: id, Distance: distance, ResolvedAt: s.now()}
		if err := s.store.PutReviewLink(ctx, link); err != nil {
			log.Printf("Failed to cache review link for %s: %v", g.ID, err)
		}
	}

	out.State = StateReviewResolved
	return rv, out
}

func (s *Service) cachedLink(ctx context.Context, productID string) (catalog.ReviewLink, bool) {
	if s.store == nil {
		return catalog.ReviewLink{}, false
	}
	link, err := s.store.GetReviewLink(ctx, productID)
	if err != nil {
		if !errors.Is(err, catalog.ErrLinkNotFound) {
			log.Printf("Failed to read review link for %s: %v", productID, err)
		}
		return catalog.ReviewLink{}, false
	}
	return link, true
}

func (s *Service) invalidateLink(ctx context.Context, productID string) {
	if err := s.store.DeleteReviewLink(ctx, productID); err != nil {
		log.Printf("Failed to invalidate review link for %s: %v", productID, err)
	}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, review.ErrNoMatch):
		return ReasonNoMatch
	case errors.Is(err, review.ErrMissing):
		return ReasonMissing
	case fetch.IsTransport(err):
		return ReasonTransport
	default:
		// Search or game bodies that are not the expected JSON shape.
		return ReasonDecode
	}
}

// TopN returns up to n reviewed games by descending average score. Games with
// equal scores keep their catalogue order.
func TopN(cat *catalog.Catalogue, n int) []catalog.Game {
	if n <= 0 {
		return nil
	}
	var reviewed []catalog.Game
	for _, g := range cat.Games() {
		if g.HasReview() {
			reviewed = append(reviewed, g)
		}
	}
	sort.SliceStable(reviewed, func(i, j int) bool {
		return reviewed[i].Review.AverageScore > reviewed[j].Review.AverageScore
	})
	if len(reviewed) > n {
		reviewed = reviewed[:n]
	}
	return reviewed
}

// AverageUserRating is the mean store rating rounded to two decimals.
func AverageUserRating(cat *catalog.Catalogue) (float64, error) {
	if cat == nil || cat.Len() == 0 {
		return 0, ErrEmptyCatalogue
	}
	var sum float64
	games := cat.Games()
	for _, g := range games {
		sum += g.UserRating
	}
	return math.Round(sum/float64(len(games))*100) / 100, nil
}

// Run executes the whole pipeline once and returns the ranked report.
func (s *Service) Run(ctx context.Context) (rep *Report, err error) {
	run := &Run{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		StartedAt: s.now(),
		TopN:      s.cfg.TopN,
		Workers:   s.cfg.Workers,
		Skipped:   make(map[string]int),
	}
	if s.runs != nil {
		if err := s.runs.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
	}

	defer func() {
		now := s.now()
		run.FinishedAt = &now
		if err != nil {
			run.Error = err.Error()
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		if s.runs != nil {
			// The run row must leave RUNNING even after cancellation.
			if updateErr := s.runs.FinishRun(context.WithoutCancel(ctx), run); updateErr != nil {
				log.Printf("Failed to update run %s: %v", run.ID, updateErr)
			}
		}
	}()

	ids, err := s.ListIdentifiers(ctx)
	if err != nil {
		return nil, err
	}
	run.GamesListed = len(ids)

	b, err := s.buildCatalogue(ctx, ids)
	if err != nil {
		return nil, err
	}
	cat := b.catalogue
	run.GamesNormalized = cat.Len()
	mergeCounts(run.Skipped, b.skipped)

	for _, title := range cat.CollidingTitles() {
		log.Printf("title collision title=%q products=%v", title, cat.Collisions()[title])
	}

	if s.store != nil {
		if err := s.store.SaveSource(ctx, run.ID, catalog.ProviderGamePass, b.raw); err != nil {
			log.Printf("Failed to save catalogue source for run %s: %v", run.ID, err)
		}
		if s.cfg.RefreshLinks {
			if err := s.store.DeleteReviewLinks(ctx); err != nil {
				log.Printf("Failed to clear review links: %v", err)
			}
		}
	}

	enriched := s.EnrichWithReviews(ctx, cat)
	run.ReviewsAttached = enriched.Attached
	mergeCounts(run.Skipped, enriched.Skipped)

	if s.store != nil {
		s.persist(ctx, run.ID, cat)
	}

	avg, err := AverageUserRating(cat)
	if err != nil {
		return nil, err
	}

	log.Printf("run=%s listed=%d normalized=%d reviews=%d skipped=%v",
		run.ID, run.GamesListed, run.GamesNormalized, run.ReviewsAttached, run.Skipped)

	return &Report{
		RunID:             run.ID,
		GeneratedAt:       run.StartedAt,
		CatalogueSize:     cat.Len(),
		AverageUserRating: avg,
		Top:               TopN(cat, s.cfg.TopN),
		Skipped:           run.Skipped,
		Collisions:        cat.Collisions(),
	}, nil
}

func (s *Service) persist(ctx context.Context, runID string, cat *catalog.Catalogue) {
	for _, g := range cat.Games() {
		g := g
		rowID, err := s.store.InsertGame(ctx, runID, &g)
		if err != nil {
			log.Printf("Failed to insert game %s: %v", g.ID, err)
			continue
		}
		if g.Review == nil {
			continue
		}
		if err := s.store.InsertReview(ctx, rowID, g.Review); err != nil {
			log.Printf("Failed to insert review for game %s: %v", g.ID, err)
		}
	}
}

func mergeCounts(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}
