// Package csvimport reads game rows from a local CSV file. Header
// names are matched case-insensitively after trimming; Name, Date and
// Opp are required, plus one column per supported metric.
package csvimport

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/courtdata/gamelog/internal/store"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// columnAliases maps normalized header names onto canonical fields.
// Both the long metric names and the box-score abbreviations are
// accepted; "to" is the persisted-layout spelling of turnovers.
var columnAliases = map[string]string{
	"name":        "name",
	"player_name": "name",
	"date":        "date",
	"game_date":   "date",
	"opp":         "opp",
	"opponent":    "opp",
	"matchup":     "matchup",
	"player_id":   "player_id",
	"game_id":     "game_id",
	"wl":          "wl",
	"outcome":     "wl",
	"min":         "min",
	"minutes":     "min",
	"points":      "pts",
	"pts":         "pts",
	"rebounds":    "reb",
	"reb":         "reb",
	"assists":     "ast",
	"ast":         "ast",
	"steals":      "stl",
	"stl":         "stl",
	"blocks":      "blk",
	"blk":         "blk",
	"turnovers":   "tov",
	"tov":         "tov",
	"to":          "tov",
}

// Source adapts a CSV file to the sync service.
type Source struct {
	path string
}

// NewSource creates an ingestion source reading the given CSV file.
func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Name() string {
	return "csv"
}

func (s *Source) Fetch(ctx context.Context) ([]store.GameRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "csvimport Open")
	}
	defer f.Close()

	return Read(f)
}

// Read parses game rows from CSV data. Rows with unparseable dates
// come back with a zero date for the sync service to drop; rows
// without explicit identifiers get deterministic synthesized ones so
// re-importing the same file stays idempotent.
func Read(r io.Reader) ([]store.GameRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "csvimport header")
	}

	cols := map[string]int{}
	for i, h := range headers {
		normalized := strings.ToLower(strings.TrimSpace(h))
		if field, ok := columnAliases[normalized]; ok {
			if _, taken := cols[field]; !taken {
				cols[field] = i
			}
		}
	}
	for _, required := range []string{"name", "date", "opp"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("csvimport: missing required column %q", required)
		}
	}

	var rows []store.GameRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "csvimport read")
		}

		name := cell(record, cols, "name")
		date := parseDate(cell(record, cols, "date"))
		row := store.GameRow{
			PlayerID:   cell(record, cols, "player_id"),
			PlayerName: name,
			GameID:     cell(record, cols, "game_id"),
			GameDate:   date,
			Matchup:    cell(record, cols, "matchup"),
			Outcome:    cell(record, cols, "wl"),
			Minutes:    numericCell(record, cols, "min"),
			Points:     numericCell(record, cols, "pts"),
			Rebounds:   numericCell(record, cols, "reb"),
			Assists:    numericCell(record, cols, "ast"),
			Steals:     numericCell(record, cols, "stl"),
			Blocks:     numericCell(record, cols, "blk"),
			Turnovers:  numericCell(record, cols, "tov"),
		}

		// File-based logs usually carry only the opponent; the series
		// builder takes the last matchup token, so the bare opponent
		// works as a matchup.
		if row.Matchup == "" {
			row.Matchup = cell(record, cols, "opp")
		}
		if row.PlayerID == "" {
			row.PlayerID = synthesizeID(name)
		}
		if row.GameID == "" && !date.IsZero() {
			row.GameID = synthesizeID(name) + "_" + date.Format(store.DateOnly)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func cell(record []string, cols map[string]int, field string) string {
	i, ok := cols[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// numericCell defaults absent or unparseable stats to 0 so downstream
// averaging stays well-defined.
func numericCell(record []string, cols map[string]int, field string) float64 {
	v, err := strconv.ParseFloat(cell(record, cols, field), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseDate(text string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}

func synthesizeID(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
