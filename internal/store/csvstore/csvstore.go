// Package csvstore implements the file-table Row Store backend: a
// single CSV file on disk holding one game row per record. It exists
// so the service can run without a database, matching the layout the
// CSV ingestion format uses.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/courtdata/gamelog/internal/store"
)

var header = []string{
	"player_id", "player_name", "game_id", "game_date", "matchup", "wl",
	"min", "pts", "reb", "ast", "stl", "blk", "tov",
}

// Store is a CSV-file Row Store. A mutex serializes writers; every
// write rewrites the file to a temp path and renames it into place, so
// readers see either the pre- or post-write file, never a torn row.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open prepares a CSV store at the given path. The file itself is
// created lazily on the first insert; a missing file is not an error
// for reads, which simply see an empty store.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &Store{path: path}, nil
}

// InsertRows appends rows not already present by (player_id, game_id)
// and returns how many were written.
func (s *Store) InsertRows(ctx context.Context, rows []store.GameRow) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		seen[dedupKey(row)] = true
	}

	inserted := 0
	for _, row := range rows {
		key := dedupKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		existing = append(existing, row)
		inserted++
	}

	if inserted == 0 {
		return 0, nil
	}
	if err := s.rewrite(existing); err != nil {
		return 0, err
	}

	return inserted, nil
}

// QueryByPlayer returns all rows whose player name contains the given
// name, case-insensitively, sorted ascending by date with insertion
// order preserved for same-day games.
func (s *Store) QueryByPlayer(ctx context.Context, name string) ([]store.GameRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	matched := []store.GameRow{}
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.PlayerName), needle) {
			matched = append(matched, row)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].GameDate.Before(matched[j].GameDate)
	})

	return matched, nil
}

// SearchPlayerNames returns up to limit distinct player names with the
// given case-insensitive prefix, sorted.
func (s *Store) SearchPlayerNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	if utf8.RuneCountInString(prefix) < store.MinSearchPrefix {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load()
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(prefix)
	distinct := map[string]bool{}
	names := []string{}
	for _, row := range rows {
		if distinct[row.PlayerName] {
			continue
		}
		if strings.HasPrefix(strings.ToLower(row.PlayerName), lowered) {
			distinct[row.PlayerName] = true
			names = append(names, row.PlayerName)
		}
	}

	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}

	return names, nil
}

// HealthCheck verifies the store directory is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op; nothing is held open between operations.
func (s *Store) Close() error {
	return nil
}

func dedupKey(row store.GameRow) string {
	return row.PlayerID + "_" + row.GameID
}

// load reads all rows from disk. A missing file is an empty store.
func (s *Store) load() ([]store.GameRow, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(header)

	// Skip the header line.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading store header: %w", err)
	}

	var rows []store.GameRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading store row: %w", err)
		}
		rows = append(rows, decodeRecord(record))
	}

	return rows, nil
}

// rewrite writes all rows to a temp file and renames it into place.
func (s *Store) rewrite(rows []store.GameRow) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".gamelog-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing store header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(encodeRow(row)); err != nil {
			tmp.Close()
			return fmt.Errorf("writing store row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}

func encodeRow(row store.GameRow) []string {
	return []string{
		row.PlayerID,
		row.PlayerName,
		row.GameID,
		row.GameDate.Format(store.DateOnly),
		row.Matchup,
		row.Outcome,
		formatStat(row.Minutes),
		formatStat(row.Points),
		formatStat(row.Rebounds),
		formatStat(row.Assists),
		formatStat(row.Steals),
		formatStat(row.Blocks),
		formatStat(row.Turnovers),
	}
}

// decodeRecord turns a CSV record back into a GameRow. An unparseable
// date decodes to the zero time; the series builder drops such rows.
// Absent numeric stats decode to 0 so averaging stays well-defined.
func decodeRecord(record []string) store.GameRow {
	date, _ := time.Parse(store.DateOnly, record[3])
	return store.GameRow{
		PlayerID:   record[0],
		PlayerName: record[1],
		GameID:     record[2],
		GameDate:   date,
		Matchup:    record[4],
		Outcome:    record[5],
		Minutes:    parseStat(record[6]),
		Points:     parseStat(record[7]),
		Rebounds:   parseStat(record[8]),
		Assists:    parseStat(record[9]),
		Steals:     parseStat(record[10]),
		Blocks:     parseStat(record[11]),
		Turnovers:  parseStat(record[12]),
	}
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseStat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
