package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"passcritic/internal/config"
	"passcritic/internal/ingest"
	"passcritic/internal/platform/fetch"
	"passcritic/internal/platform/gamepass"
	"passcritic/internal/platform/opencritic"
	"passcritic/internal/report"
	"passcritic/internal/review"
)

func main() {
	var (
		topN         = flag.Int("top", 0, "Number of titles in the report (overrides TOP_N)")
		workers      = flag.Int("workers", 0, "Concurrent review lookups (overrides WORKERS)")
		format       = flag.String("format", report.FormatText, "Report format: text, json")
		refreshLinks = flag.Bool("refresh-links", false, "Forget cached review links and resolve every title again")
		migrate      = flag.Bool("migrate", false, "Apply database migrations before running")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *topN > 0 {
		cfg.TopN = *topN
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, runs, closeStore, err := openStore(ctx, cfg, *migrate)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	httpClient := fetch.NewClient(fetch.Options{
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	catalogue := gamepass.NewClient(httpClient, gamepass.Config{
		CatalogueURL: cfg.CatalogueURL,
		ProductsURL:  cfg.ProductsURL,
		Market:       cfg.Market,
		Language:     cfg.Language,
	})
	critic := opencritic.NewClient(httpClient, cfg.OpenCriticSearchURL, cfg.OpenCriticGameURL)

	svc := ingest.NewService(catalogue, review.NewResolver(critic), review.NewFetcher(critic), store, runs, ingest.Config{
		TopN:         cfg.TopN,
		Workers:      cfg.Workers,
		RefreshLinks: *refreshLinks,
	})

	log.Printf("Starting run top=%d workers=%d store=%s", cfg.TopN, cfg.Workers, cfg.DBDriver)
	rep, err := svc.Run(ctx)
	if err != nil {
		closeStore()
		log.Fatalf("run failed: %v", err)
	}

	if err := report.Write(os.Stdout, *format, rep, time.Now()); err != nil {
		closeStore()
		log.Fatalf("write report: %v", err)
	}
}
