package fetch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	// UserAgent for requests; the site serves plain server-rendered markup
	// to anything that looks like a browser.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 15 * time.Second
)

// Fetcher retrieves a URL and returns the parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Client fetches pages over plain HTTP.
type Client struct {
	http *resty.Client
}

// NewClient creates an HTTP page fetcher. A non-positive timeout falls back
// to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", UserAgent)

	return &Client{http: client}
}

// Fetch performs a GET and parses the response body as HTML. A non-2xx
// status is a fetch error, not a parseable page.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if res.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", url, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	return doc, nil
}
