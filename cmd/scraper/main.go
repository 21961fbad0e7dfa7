package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/maisonnat/GauchoAPI/internal/browser"
	"github.com/maisonnat/GauchoAPI/internal/cache"
	"github.com/maisonnat/GauchoAPI/internal/config"
	"github.com/maisonnat/GauchoAPI/internal/database"
	"github.com/maisonnat/GauchoAPI/internal/fetch"
	"github.com/maisonnat/GauchoAPI/internal/notify"
	"github.com/maisonnat/GauchoAPI/internal/ratelimit"
	"github.com/maisonnat/GauchoAPI/internal/runner"
	"github.com/maisonnat/GauchoAPI/internal/scraper"
	"github.com/maisonnat/GauchoAPI/pkg/logger"
)

func main() {
	var (
		query      = flag.String("query", "", "Search query, e.g. \"celular samsung a23\"")
		storeList  = flag.String("stores", "all", "Comma-separated store names, or \"all\"")
		sendNotify = flag.Bool("notify", false, "Send a mail notification when a run fails")
		headless   = flag.Bool("headless", true, "Run the browser in headless mode")
	)
	flag.Parse()

	if *query == "" {
		log.Fatal("-query is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	stores := scraper.Stores()
	if *storeList != "all" {
		stores = strings.Split(*storeList, ",")
	}

	ctx := context.Background()

	store, err := cache.New(cfg.Cache)
	if err != nil {
		logg.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logg.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	products := database.NewProductRepository(db)
	if err := products.EnsureSchema(ctx); err != nil {
		logg.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	fetcher := fetch.New(store, cfg.Scraper, cfg.Cache.TTL, logg)
	if cfg.Scraper.MaxDelay > 0 {
		fetcher.SetLimiter(ratelimit.NewSimple(cfg.Scraper.MinDelay, cfg.Scraper.MaxDelay))
	}

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = *headless && cfg.Browser.Headless
	browserOpts.Timeout = cfg.Browser.Timeout
	renderer := browser.NewRenderer(browserOpts, logg)

	var notifier notify.Notifier
	if *sendNotify && cfg.Notify.Enabled {
		notifier = notify.NewMailer(cfg.Notify, logg)
	}

	run := runner.New(products, notifier, logg)

	exitCode := 0
	for _, name := range stores {
		adapter, err := scraper.NewAdapter(strings.TrimSpace(name), *query, fetcher, renderer, logg)
		if err != nil {
			logg.Error("skipping store", "store", name, "error", err)
			exitCode = 1
			continue
		}

		result := run.Run(ctx, adapter, *sendNotify)
		if result.Err != nil {
			exitCode = 1
			fmt.Printf("%s: failed: %v\n", result.Store, result.Err)
			continue
		}
		fmt.Printf("%s: %d products (%d persisted) in %s\n",
			result.Store, len(result.Products), result.Persisted, result.Duration)
	}

	os.Exit(exitCode)
}
