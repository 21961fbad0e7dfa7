package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/maisonnat/GauchoAPI/internal/api"
	"github.com/maisonnat/GauchoAPI/internal/browser"
	"github.com/maisonnat/GauchoAPI/internal/cache"
	"github.com/maisonnat/GauchoAPI/internal/config"
	"github.com/maisonnat/GauchoAPI/internal/database"
	"github.com/maisonnat/GauchoAPI/internal/fetch"
	"github.com/maisonnat/GauchoAPI/internal/notify"
	"github.com/maisonnat/GauchoAPI/internal/ratelimit"
	"github.com/maisonnat/GauchoAPI/internal/runner"
	"github.com/maisonnat/GauchoAPI/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logg.Info("starting gaucho API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logg.Info("shutdown signal received")
		cancel()
	}()

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
	browserOpts.Headless = cfg.Browser.Headless
	browserOpts.Timeout = cfg.Browser.Timeout
	browserOpts.ViewportWidth = cfg.Browser.ViewportWidth
	browserOpts.ViewportHeight = cfg.Browser.ViewportHeight
	browserOpts.Locale = cfg.Browser.Locale
	browserOpts.TimezoneID = cfg.Browser.TimezoneID
	if len(cfg.Scraper.UserAgents) > 0 {
		browserOpts.UserAgent = cfg.Scraper.UserAgents[0]
	}
	renderer := browser.NewRenderer(browserOpts, logg)

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewMailer(cfg.Notify, logg)
	}

	run := runner.New(products, notifier, logg)
	handlers := api.NewHandlers(run, fetcher, renderer, cfg.Notify.Enabled, logg)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error("server shutdown failed", "error", err)
		}
	}()

	logg.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error("server failed", "error", err)
		os.Exit(1)
	}

	logg.Info("server stopped")
}
