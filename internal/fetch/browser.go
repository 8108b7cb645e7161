package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// MinRequestInterval between headless fetches to stay under the site's rate
// limits.
const MinRequestInterval = 2 * time.Second

// Browser fetches pages through headless Chrome. The playoff site is
// server-rendered, but it periodically starts blocking non-browser HTTP
// clients; this fetcher is the fallback for those stretches
// (FETCH_MODE=browser).
type Browser struct {
	allocCtx context.Context
	cancel   context.CancelFunc

	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration
}

// NewBrowser creates a headless-Chrome page fetcher.
func NewBrowser() (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Browser{
		allocCtx: allocCtx,
		cancel:   cancel,
		interval: MinRequestInterval,
	}, nil
}

// Close releases the browser allocator.
func (b *Browser) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Fetch loads the URL in a fresh browser tab and parses the rendered HTML.
// Requests are serialized and spaced by the minimum interval; fetch workers
// share one Browser.
func (b *Browser) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lastRequest.IsZero() {
		if elapsed := time.Since(b.lastRequest); elapsed < b.interval {
			wait := b.interval - elapsed
			log.Printf("[fetch] rate limiting: waiting %v before next request", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	html, err := b.render(ctx, url)
	b.lastRequest = time.Now()
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	return doc, nil
}

func (b *Browser) render(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	if html == "" {
		return "", fmt.Errorf("render %s: empty HTML content returned", url)
	}

	return html, nil
}
