// Package bbref scrapes a player's game-log table from a reference
// site's HTML. The pages are static, so a plain GET plus goquery is
// enough; no browser rendering is involved.
package bbref

import (
	"context"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	// UserAgent for requests; the site rejects blank agents.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// minRequestInterval keeps scraping polite.
	minRequestInterval = 2 * time.Second
)

// Client fetches game-log pages with rate limiting.
type Client struct {
	httpClient  *http.Client
	lastRequest time.Time
	interval    time.Duration
}

// NewClient creates a new game-log page client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		interval: minRequestInterval,
	}
}

// FetchGameLog fetches and parses the page at url into a document.
func (c *Client) FetchGameLog(ctx context.Context, url string) (*goquery.Document, error) {
	if !c.lastRequest.IsZero() {
		if elapsed := time.Since(c.lastRequest); elapsed < c.interval {
			select {
			case <-time.After(c.interval - elapsed):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	c.lastRequest = time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "FetchGameLog NewRequest")
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "FetchGameLog Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("FetchGameLog: site returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "FetchGameLog parse HTML")
	}

	return doc, nil
}
