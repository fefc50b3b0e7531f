// Package statsapi pulls league-wide player game logs from the stats
// provider's JSON API. The wire format is the provider's resultSets
// shape: parallel header and rowSet arrays.
package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const (
	// BaseURL of the stats provider.
	BaseURL = "https://stats.nba.com"

	// UserAgent for requests; the provider rejects blank agents.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client handles stats API requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a stats API client. An empty baseURL uses the
// provider default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LogResponse is the provider's envelope for tabular results.
type LogResponse struct {
	ResultSets []ResultSet `json:"resultSets"`
}

// ResultSet carries one table as parallel headers and row arrays.
type ResultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// FetchPlayerGameLogs fetches every player's game log for a season,
// one row per player per game.
func (c *Client) FetchPlayerGameLogs(ctx context.Context, season string) (*LogResponse, error) {
	endpoint := fmt.Sprintf("%s/stats/playergamelogs?Season=%s&SeasonType=%s",
		c.baseURL, url.QueryEscape(season), url.QueryEscape("Regular Season"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "FetchPlayerGameLogs NewRequest")
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "FetchPlayerGameLogs Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("FetchPlayerGameLogs: provider returned status %d", resp.StatusCode)
	}

	var logs LogResponse
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		return nil, errors.Wrap(err, "FetchPlayerGameLogs Decode")
	}

	return &logs, nil
}
