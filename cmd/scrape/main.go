package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/fortuna/gridiron/internal/config"
	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/scrape"
)

const (
	appName    = "gridiron-scrape"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		group      = flag.String("group", "", "Group id (the digits at the end of the group URL)")
		serial     = flag.Bool("serial", false, "Fetch rosters one at a time instead of in parallel")
		configPath = flag.String("config", os.Getenv("CONFIG_FILE"), "Path to a YAML config file")
	)

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	fetcher, closeFetcher, err := buildFetcher(cfg)
	if err != nil {
		log.Fatalf("initialize fetcher: %v", err)
	}
	defer closeFetcher()

	scraper := scrape.New(fetcher, cfg)

	envelope, err := scraper.ScrapeGroup(context.Background(), *group, !*serial)
	if err != nil {
		log.Fatalf("scrape failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		log.Fatalf("encode response: %v", err)
	}

	if envelope.Error != "" {
		os.Exit(1)
	}
}

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
