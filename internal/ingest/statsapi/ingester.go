package statsapi

import (
	"context"

	"github.com/courtdata/gamelog/internal/store"
)

// Source adapts the stats API client to the sync service.
type Source struct {
	client *Client
	season string
}

// NewSource creates an ingestion source for one season's game logs.
func NewSource(client *Client, season string) *Source {
	return &Source{client: client, season: season}
}

func (s *Source) Name() string {
	return "statsapi"
}

// Fetch pulls and normalizes the season's player game logs.
func (s *Source) Fetch(ctx context.Context) ([]store.GameRow, error) {
	logs, err := s.client.FetchPlayerGameLogs(ctx, s.season)
	if err != nil {
		return nil, err
	}
	return ParseGameLogs(logs)
}
