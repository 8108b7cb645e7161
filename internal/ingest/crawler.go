package ingest

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fortuna/gridiron/internal/fetch"
)

// defaultPageSize is how many entries the group listing shows per offset
// step.
const defaultPageSize = 16

// Crawler walks the paginated group listing and collects every entry.
type Crawler struct {
	fetcher  fetch.Fetcher
	baseURL  string
	pageSize int
}

// NewCrawler creates a group-listing crawler. A non-positive page size falls
// back to the site's default of 16.
func NewCrawler(fetcher fetch.Fetcher, baseURL string, pageSize int) *Crawler {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Crawler{
		fetcher:  fetcher,
		baseURL:  baseURL,
		pageSize: pageSize,
	}
}

// Discover pages through the group listing until an empty page comes back,
// which is the only termination signal the site exposes. The result is
// sorted by entry name; ties keep their encounter order. An empty result
// with no error means the group genuinely has no entries.
func (c *Crawler) Discover(ctx context.Context, groupID string) ([]Entry, error) {
	var all []Entry
	for offset := 0; ; offset += c.pageSize {
		url := fmt.Sprintf("%s/group/%s?offset=%d", c.baseURL, groupID, offset)
		doc, err := c.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("group %s page at offset %d: %w", groupID, offset, err)
		}

		page := parseEntryList(doc)
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})

	log.Printf("[crawl] group %s: discovered %d entries", groupID, len(all))
	return all, nil
}

// parseEntryList extracts (name, profile link) pairs from one listing page.
// Names are lowercased with the site's "'s picks" suffix stripped.
func parseEntryList(doc *goquery.Document) []Entry {
	var entries []Entry
	doc.Find("td.groupEntryName a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		name := strings.ToLower(strings.Replace(a.Text(), "'s picks", "", 1))
		entries = append(entries, Entry{Name: name, ProfilePath: href})
	})
	return entries
}
