package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fortuna/gridiron/internal/fetch"
)

// Parser scrapes one participant's picks page into slot records.
type Parser struct {
	fetcher fetch.Fetcher
	baseURL string
}

// NewParser creates a roster-page parser.
func NewParser(fetcher fetch.Fetcher, baseURL string) *Parser {
	return &Parser{
		fetcher: fetcher,
		baseURL: baseURL,
	}
}

// ParseEntry fetches the entry's picks page and parses every roster slot,
// stamping each record with the entry's name. A fetch error is returned
// as-is so callers can tell a failed page apart from a genuinely empty
// roster.
func (p *Parser) ParseEntry(ctx context.Context, entry Entry) ([]SlotRecord, error) {
	doc, err := p.fetcher.Fetch(ctx, p.baseURL+entry.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("roster for %q: %w", entry.Name, err)
	}

	var records []SlotRecord
	doc.Find("li.roster-slot").Each(func(_ int, s *goquery.Selection) {
		rec, ok := parseSlot(s)
		if !ok {
			return
		}
		rec.User = entry.Name
		records = append(records, rec)
	})

	return records, nil
}

// parseSlot reads one roster-slot element. Slots whose inner div carries no
// id are structural placeholders, not picks, and are skipped. Missing child
// elements are the normal state for unrevealed future weeks, so every
// text-derived field has a default.
func parseSlot(s *goquery.Selection) (SlotRecord, bool) {
	div := s.Find("div").First()
	id, ok := div.Attr("id")
	if !ok || id == "" {
		return SlotRecord{}, false
	}

	week, slot, ok := splitSlotID(id)
	if !ok {
		return SlotRecord{}, false
	}

	first := s.Find("span.first-name").First().Text()
	last := s.Find("span.last-name").First().Text()

	score := "0"
	if em := s.Find("span.display.pts.player-pts em").First(); em.Length() > 0 {
		score = em.Text()
	}

	rec := SlotRecord{
		Week:       week,
		RosterSlot: slot,
		PlayerName: first + " " + last,
		Score:      score,
	}
	rec.Position, _ = div.Attr("data-player-position")
	rec.Multiplier, _ = div.Attr("data-player-multiplier")
	rec.Team, _ = div.Attr("data-sport-team-id")
	rec.PlayerImg, _ = s.Find("img.player-img").First().Attr("src")

	return rec, true
}

// splitSlotID takes an id of the form <prefix>-<week>-<slot> and returns the
// last two dash-delimited tokens.
func splitSlotID(id string) (week, slot string, ok bool) {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[len(parts)-2], parts[len(parts)-1], true
}
