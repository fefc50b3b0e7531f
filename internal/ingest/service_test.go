package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/courtdata/gamelog/internal/store"
)

// fakeStore dedups on (player_id, game_id) like the real backends.
type fakeStore struct {
	keys map[string]bool
	rows []store.GameRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: map[string]bool{}}
}

func (f *fakeStore) InsertRows(ctx context.Context, rows []store.GameRow) (int, error) {
	inserted := 0
	for _, row := range rows {
		key := row.PlayerID + "_" + row.GameID
		if f.keys[key] {
			continue
		}
		f.keys[key] = true
		f.rows = append(f.rows, row)
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) QueryByPlayer(ctx context.Context, name string) ([]store.GameRow, error) {
	return f.rows, nil
}

func (f *fakeStore) SearchPlayerNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                          { return nil }

type sliceSource struct {
	rows []store.GameRow
}

func (s *sliceSource) Name() string { return "test" }

func (s *sliceSource) Fetch(ctx context.Context) ([]store.GameRow, error) {
	return s.rows, nil
}

func TestRunDropsMalformedRows(t *testing.T) {
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	src := &sliceSource{rows: []store.GameRow{
		{PlayerID: "1", PlayerName: "A", GameID: "g1", GameDate: day, Points: 20},
		{PlayerID: "1", PlayerName: "A", GameID: "", GameDate: day, Points: 15},   // missing dedup key
		{PlayerID: "1", PlayerName: "A", GameID: "g2", Points: 30},                // no parseable date
		{PlayerID: "", PlayerName: "A", GameID: "g3", GameDate: day, Points: 10},  // missing player id
	}}

	st := newFakeStore()
	summary, err := NewService(st).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if summary.Fetched != 4 {
		t.Fatalf("expected 4 fetched, got %d", summary.Fetched)
	}
	if summary.Dropped != 3 {
		t.Fatalf("expected 3 dropped, got %d", summary.Dropped)
	}
	if summary.Inserted != 1 {
		t.Fatalf("expected 1 inserted, got %d", summary.Inserted)
	}
	if len(st.rows) != 1 || st.rows[0].GameID != "g1" {
		t.Fatalf("unexpected stored rows: %+v", st.rows)
	}
}

func TestRunIsRerunnable(t *testing.T) {
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	src := &sliceSource{rows: []store.GameRow{
		{PlayerID: "1", PlayerName: "A", GameID: "g1", GameDate: day},
		{PlayerID: "1", PlayerName: "A", GameID: "g2", GameDate: day.AddDate(0, 0, 2)},
	}}

	st := newFakeStore()
	svc := NewService(st)
	ctx := context.Background()

	first, err := svc.Run(ctx, src)
	if err != nil {
		t.Fatalf("first Run() failed: %v", err)
	}
	if first.Inserted != 2 {
		t.Fatalf("expected 2 inserted on first run, got %d", first.Inserted)
	}

	second, err := svc.Run(ctx, src)
	if err != nil {
		t.Fatalf("second Run() failed: %v", err)
	}
	if second.Inserted != 0 {
		t.Fatalf("expected 0 inserted on re-run, got %d", second.Inserted)
	}
	if first.RunID == second.RunID {
		t.Fatal("expected distinct run IDs")
	}
	if len(st.rows) != 2 {
		t.Fatalf("expected 2 stored rows after re-run, got %d", len(st.rows))
	}
}

func TestValidateRow(t *testing.T) {
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	if err := ValidateRow(store.GameRow{PlayerID: "1", GameID: "g1", GameDate: day}); err != nil {
		t.Fatalf("expected valid row, got %v", err)
	}
	if err := ValidateRow(store.GameRow{PlayerID: "1", GameDate: day}); err == nil {
		t.Fatal("expected error for missing game id")
	}
	if err := ValidateRow(store.GameRow{PlayerID: "1", GameID: "g1"}); err == nil {
		t.Fatal("expected error for zero date")
	}
}
