package statsapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/courtdata/gamelog/internal/store"
)

// dateLayouts the provider has been observed to use for GAME_DATE.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 02, 2006",
}

// ParseGameLogs maps the provider's uppercase columns onto game rows.
// Rows with unparseable dates come back with a zero date so the sync
// service can count and drop them; absent numeric stats become 0.
func ParseGameLogs(logs *LogResponse) ([]store.GameRow, error) {
	rs := findResultSet(logs, "PlayerGameLogs")
	if rs == nil {
		return nil, errors.New("ParseGameLogs: no PlayerGameLogs result set")
	}

	idx := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		idx[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"PLAYER_ID", "PLAYER_NAME", "GAME_ID", "GAME_DATE"} {
		if _, ok := idx[required]; !ok {
			return nil, errors.Errorf("ParseGameLogs: missing column %s", required)
		}
	}

	rows := make([]store.GameRow, 0, len(rs.RowSet))
	for _, raw := range rs.RowSet {
		rows = append(rows, store.GameRow{
			PlayerID:   stringAt(raw, idx, "PLAYER_ID"),
			PlayerName: stringAt(raw, idx, "PLAYER_NAME"),
			GameID:     stringAt(raw, idx, "GAME_ID"),
			GameDate:   dateAt(raw, idx, "GAME_DATE"),
			Matchup:    stringAt(raw, idx, "MATCHUP"),
			Outcome:    stringAt(raw, idx, "WL"),
			Minutes:    floatAt(raw, idx, "MIN"),
			Points:     floatAt(raw, idx, "PTS"),
			Rebounds:   floatAt(raw, idx, "REB"),
			Assists:    floatAt(raw, idx, "AST"),
			Steals:     floatAt(raw, idx, "STL"),
			Blocks:     floatAt(raw, idx, "BLK"),
			Turnovers:  floatAt(raw, idx, "TOV"),
		})
	}

	return rows, nil
}

func findResultSet(logs *LogResponse, name string) *ResultSet {
	for i := range logs.ResultSets {
		if strings.EqualFold(logs.ResultSets[i].Name, name) {
			return &logs.ResultSets[i]
		}
	}
	// Some endpoints return a single unnamed set.
	if len(logs.ResultSets) == 1 {
		return &logs.ResultSets[0]
	}
	return nil
}

// stringAt reads a cell as a string. Numeric identifiers (the provider
// sends PLAYER_ID as a number) are rendered without an exponent.
func stringAt(raw []interface{}, idx map[string]int, column string) string {
	i, ok := idx[column]
	if !ok || i >= len(raw) || raw[i] == nil {
		return ""
	}
	switch v := raw[i].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func floatAt(raw []interface{}, idx map[string]int, column string) float64 {
	i, ok := idx[column]
	if !ok || i >= len(raw) || raw[i] == nil {
		return 0
	}
	switch v := raw[i].(type) {
	case float64:
		return v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func dateAt(raw []interface{}, idx map[string]int, column string) time.Time {
	text := stringAt(raw, idx, column)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}
