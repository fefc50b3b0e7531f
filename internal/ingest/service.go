// Package ingest pulls game rows from an external source, validates
// them, and loads them into the Row Store. Syncs are idempotent and
// re-runnable: a crash mid-run leaves already-inserted rows intact and
// the next run resumes via the dedup key.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/courtdata/gamelog/internal/store"
)

// Source produces normalized game rows from some upstream provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]store.GameRow, error)
}

// MalformedRowError reports a fetched row that cannot be stored. It is
// handled locally: the row is dropped and the sync continues.
type MalformedRowError struct {
	PlayerID string
	GameID   string
	Reason   string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row (player %q, game %q): %s", e.PlayerID, e.GameID, e.Reason)
}

// ValidateRow rejects rows that must never reach the Row Store: those
// missing the dedup key or without a parseable game date.
func ValidateRow(row store.GameRow) error {
	if row.PlayerID == "" {
		return &MalformedRowError{GameID: row.GameID, Reason: "missing player id"}
	}
	if row.GameID == "" {
		return &MalformedRowError{PlayerID: row.PlayerID, Reason: "missing game id"}
	}
	if row.GameDate.IsZero() {
		return &MalformedRowError{PlayerID: row.PlayerID, GameID: row.GameID, Reason: "unparseable game date"}
	}
	return nil
}

// Summary describes one completed sync run.
type Summary struct {
	RunID    string
	Source   string
	Fetched  int
	Dropped  int
	Inserted int
	Started  time.Time
	Finished time.Time
}

// Service orchestrates sync runs against a Row Store.
type Service struct {
	store store.RowStore
}

// NewService creates a new ingestion service.
func NewService(st store.RowStore) *Service {
	return &Service{store: st}
}

// Run fetches rows from the source, drops malformed ones, and inserts
// the rest. Duplicate rows are absorbed by the store's dedup key.
func (s *Service) Run(ctx context.Context, src Source) (*Summary, error) {
	summary := &Summary{
		RunID:   uuid.NewString(),
		Source:  src.Name(),
		Started: time.Now(),
	}

	log.Printf("[ingest] run %s: syncing from %s", summary.RunID, src.Name())

	rows, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching from %s: %w", src.Name(), err)
	}
	summary.Fetched = len(rows)

	valid := make([]store.GameRow, 0, len(rows))
	for _, row := range rows {
		if err := ValidateRow(row); err != nil {
			log.Printf("[ingest] run %s: dropping row: %v", summary.RunID, err)
			summary.Dropped++
			continue
		}
		valid = append(valid, row)
	}

	inserted, err := s.store.InsertRows(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("inserting rows: %w", err)
	}
	summary.Inserted = inserted
	summary.Finished = time.Now()

	log.Printf("[ingest] ✓ run %s: %d fetched, %d dropped, %d inserted (%d already present)",
		summary.RunID, summary.Fetched, summary.Dropped, summary.Inserted,
		len(valid)-summary.Inserted)

	return summary, nil
}
