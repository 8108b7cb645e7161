package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/gridiron/internal/api/rest"
	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/config"
	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/scrape"
)

const (
	serviceName    = "gridiron"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Playoff Challenge Leaderboard Service", serviceName, serviceVersion)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("✓ Configuration loaded (base: %s, fetch mode: %s)", cfg.BaseURL, cfg.FetchMode)

	fetcher, closeFetcher, err := buildFetcher(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize page fetcher: %v", err)
	}
	defer closeFetcher()

	// The response cache is optional; scraping still works without Redis,
	// every request just hits the site.
	var responses *cache.ResponseCache
	if cfg.RedisURL != "" {
		responses, err = cache.New(cfg.RedisURL, cfg.CacheTTL())
		if err != nil {
			log.Printf("⚠️  Redis unavailable: %v (responses will not be cached)", err)
			responses = nil
		} else {
			defer responses.Close()
			log.Println("✓ Connected to Redis")
		}
	}

	scraper := scrape.New(fetcher, cfg)

	restServer := rest.NewServer(cfg.Port, scraper, responses)
	go func() {
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", cfg.Port)
	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gridiron gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}

	log.Println("gridiron stopped")
}

// buildFetcher picks the page fetcher for the configured mode. The browser
// mode exists for stretches when the site blocks plain HTTP clients.
func buildFetcher(cfg *config.Config) (fetch.Fetcher, func(), error) {
	if cfg.FetchMode == "browser" {
		browser, err := fetch.NewBrowser()
		if err != nil {
			return nil, nil, err
		}
		return browser, browser.Close, nil
	}
	return fetch.NewClient(0), func() {}, nil
}
