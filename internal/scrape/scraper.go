package scrape

import (
	"context"
	"fmt"
	"log"

	"github.com/fortuna/gridiron/internal/config"
	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/ingest"
	"github.com/fortuna/gridiron/internal/leaderboard"
	"golang.org/x/sync/errgroup"
)

// Envelope is the single response shape handed to the HTTP and CLI callers.
// Exactly one of Error and Response is set.
type Envelope struct {
	Error    string  `json:"ERROR,omitempty"`
	Response *Result `json:"response,omitempty"`
}

// Result wraps the leaderboard under the "users" key.
type Result struct {
	Users leaderboard.Leaderboard `json:"users"`
}

// Error messages for the two conditions recovered into the envelope. The
// wording is part of the API contract with the frontend.
const (
	msgMissingGroup = "no group found, please send a group."
	msgNoTeams      = "No teams found for that group"
)

// Scraper runs the crawl → parse → aggregate pipeline for a group.
type Scraper struct {
	crawler *ingest.Crawler
	parser  *ingest.Parser
	opts    leaderboard.Options
	exclude map[string]struct{}
	workers int
}

// New wires a scraper from a page fetcher and the loaded configuration.
func New(fetcher fetch.Fetcher, cfg *config.Config) *Scraper {
	exclude := make(map[string]struct{}, len(cfg.ExcludedEntries))
	for _, name := range cfg.ExcludedEntries {
		exclude[name] = struct{}{}
	}

	return &Scraper{
		crawler: ingest.NewCrawler(fetcher, cfg.BaseURL, cfg.PageSize),
		parser:  ingest.NewParser(fetcher, cfg.BaseURL),
		opts: leaderboard.Options{
			BaseURL:           cfg.BaseURL,
			WeekRemapping:     cfg.WeekRemapping,
			TeamAbbreviations: cfg.TeamAbbreviations,
		},
		exclude: exclude,
		workers: cfg.Workers,
	}
}

// ScrapeGroup runs the full pipeline for one group. The missing-group and
// empty-group conditions come back inside the envelope; transport and data
// errors are returned for the caller to surface as a server failure.
func (s *Scraper) ScrapeGroup(ctx context.Context, groupID string, concurrent bool) (Envelope, error) {
	if groupID == "" {
		return Envelope{Error: msgMissingGroup}, nil
	}

	entries, err := s.crawler.Discover(ctx, groupID)
	if err != nil {
		return Envelope{}, err
	}
	if len(entries) == 0 {
		return Envelope{Error: msgNoTeams}, nil
	}

	entries = s.filterParticipants(entries)

	records, err := s.fetchRosters(ctx, entries, concurrent)
	if err != nil {
		return Envelope{}, err
	}

	board, err := leaderboard.Aggregate(records, s.opts)
	if err != nil {
		return Envelope{}, fmt.Errorf("aggregate group %s: %w", groupID, err)
	}

	return Envelope{Response: &Result{Users: board}}, nil
}

// filterParticipants drops the configured non-playing entries before any
// roster fetches happen.
func (s *Scraper) filterParticipants(entries []ingest.Entry) []ingest.Entry {
	if len(s.exclude) == 0 {
		return entries
	}

	filtered := make([]ingest.Entry, 0, len(entries))
	for _, entry := range entries {
		if _, drop := s.exclude[entry.Name]; drop {
			log.Printf("[scrape] skipping non-participant %q", entry.Name)
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

type rosterResult struct {
	entry   ingest.Entry
	records []ingest.SlotRecord
	err     error
}

// fetchRosters fans out one fetch-and-parse task per entry over a bounded
// pool. A failing entry is logged and left off the board instead of aborting
// the group; only when every entry fails does the whole fetch error out.
func (s *Scraper) fetchRosters(ctx context.Context, entries []ingest.Entry, concurrent bool) ([]ingest.SlotRecord, error) {
	results := make([]rosterResult, len(entries))

	if concurrent {
		g := new(errgroup.Group)
		g.SetLimit(s.workers)
		for i, entry := range entries {
			i, entry := i, entry
			g.Go(func() error {
				records, err := s.parser.ParseEntry(ctx, entry)
				results[i] = rosterResult{entry: entry, records: records, err: err}
				return nil
			})
		}
		g.Wait()
	} else {
		for i, entry := range entries {
			records, err := s.parser.ParseEntry(ctx, entry)
			results[i] = rosterResult{entry: entry, records: records, err: err}
		}
	}

	var flat []ingest.SlotRecord
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			log.Printf("[scrape] leaving %q off the board: %v", res.entry.Name, res.err)
			continue
		}
		flat = append(flat, res.records...)
	}

	if len(entries) > 0 && failed == len(entries) {
		return nil, fmt.Errorf("all %d roster fetches failed", len(entries))
	}

	return flat, nil
}
