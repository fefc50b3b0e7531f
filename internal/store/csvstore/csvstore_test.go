package csvstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/courtdata/gamelog/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "rows.csv"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return s
}

func row(playerID, playerName, gameID string, date time.Time, pts float64) store.GameRow {
	return store.GameRow{
		PlayerID:   playerID,
		PlayerName: playerName,
		GameID:     gameID,
		GameDate:   date,
		Matchup:    "GSW vs. LAL",
		Outcome:    "L",
		Minutes:    36.5,
		Points:     pts,
	}
}

func TestQueryAgainstMissingFile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// The store file does not exist yet; reads see an empty store.
	rows, err := s.QueryByPlayer(ctx, "anyone")
	if err != nil {
		t.Fatalf("QueryByPlayer() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(rows))
	}

	names, err := s.SearchPlayerNames(ctx, "an", 10)
	if err != nil {
		t.Fatalf("SearchPlayerNames() failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}
}

func TestInsertRowsCreatesAndDeduplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	day := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	rows := []store.GameRow{
		row("201939", "Stephen Curry", "g1", day, 38),
		row("201939", "Stephen Curry", "g2", day.AddDate(0, 0, 2), 29),
	}

	n, err := s.InsertRows(ctx, rows)
	if err != nil {
		t.Fatalf("InsertRows() failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserted, got %d", n)
	}

	// Overlapping re-ingest: one duplicate, one new row.
	n, err = s.InsertRows(ctx, []store.GameRow{
		row("201939", "Stephen Curry", "g2", day.AddDate(0, 0, 2), 29),
		row("201939", "Stephen Curry", "g3", day.AddDate(0, 0, 4), 41),
	})
	if err != nil {
		t.Fatalf("InsertRows() re-run failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 inserted on overlap, got %d", n)
	}

	got, err := s.QueryByPlayer(ctx, "curry")
	if err != nil {
		t.Fatalf("QueryByPlayer() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
}

func TestQueryByPlayerSortsByDate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.InsertRows(ctx, []store.GameRow{
		row("1", "Jordan Poole", "g2", base.AddDate(0, 0, 7), 20),
		row("1", "Jordan Poole", "g1", base, 15),
		row("1", "Jordan Poole", "g3", base.AddDate(0, 0, 3), 25),
	})
	if err != nil {
		t.Fatalf("InsertRows() failed: %v", err)
	}

	got, err := s.QueryByPlayer(ctx, "poole")
	if err != nil {
		t.Fatalf("QueryByPlayer() failed: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].GameDate.Before(got[i-1].GameDate) {
			t.Fatalf("rows not sorted: %v before %v", got[i].GameDate, got[i-1].GameDate)
		}
	}
}

func TestRowsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	day := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	if _, err := s.InsertRows(ctx, []store.GameRow{row("1", "Jalen Brunson", "g1", day, 32)}); err != nil {
		t.Fatalf("InsertRows() failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("re-Open() failed: %v", err)
	}
	got, err := reopened.QueryByPlayer(ctx, "brunson")
	if err != nil {
		t.Fatalf("QueryByPlayer() failed: %v", err)
	}
	if len(got) != 1 || got[0].Points != 32 {
		t.Fatalf("unexpected rows after reopen: %+v", got)
	}
	if !got[0].GameDate.Equal(day) {
		t.Fatalf("expected date %v, got %v", day, got[0].GameDate)
	}
}

func TestSearchPlayerNamesCountsRunesNotBytes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	if _, err := s.InsertRows(ctx, []store.GameRow{row("1", "Émile Dupont", "g1", day, 18)}); err != nil {
		t.Fatalf("InsertRows() failed: %v", err)
	}

	// One two-byte rune is still a one-character prefix.
	names, err := s.SearchPlayerNames(ctx, "é", 10)
	if err != nil {
		t.Fatalf("SearchPlayerNames() failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty result for 1-rune prefix, got %v", names)
	}

	names, err = s.SearchPlayerNames(ctx, "ém", 10)
	if err != nil {
		t.Fatalf("SearchPlayerNames() failed: %v", err)
	}
	if len(names) != 1 || names[0] != "Émile Dupont" {
		t.Fatalf("expected [Émile Dupont], got %v", names)
	}
}

func TestInsertRowsConcurrentRunsSerialize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	const (
		workers = 8
		games   = 20
	)
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	// Every worker ingests the same batch; the file must end up with
	// one record per dedup key and never a torn partial write.
	batch := make([]store.GameRow, 0, games)
	for g := 0; g < games; g++ {
		batch = append(batch, row("1", "Jalen Brunson", fmt.Sprintf("g%02d", g), day.AddDate(0, 0, g), 30))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.InsertRows(ctx, batch)
			if err != nil {
				t.Errorf("InsertRows() failed: %v", err)
				return
			}
			mu.Lock()
			inserted += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	if inserted != games {
		t.Fatalf("expected %d total insertions across workers, got %d", games, inserted)
	}

	// A fresh handle reads the file from disk, so a corrupt or partial
	// rewrite would surface here.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("re-Open() failed: %v", err)
	}
	got, err := reopened.QueryByPlayer(ctx, "brunson")
	if err != nil {
		t.Fatalf("QueryByPlayer() failed: %v", err)
	}
	if len(got) != games {
		t.Fatalf("expected %d stored rows, got %d", games, len(got))
	}
}
