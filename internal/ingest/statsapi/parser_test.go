package statsapi

import (
	"encoding/json"
	"testing"
)

const sampleResponse = `{
	"resultSets": [{
		"name": "PlayerGameLogs",
		"headers": ["PLAYER_ID", "PLAYER_NAME", "GAME_ID", "GAME_DATE", "MATCHUP", "WL", "MIN", "PTS", "REB", "AST", "STL", "BLK", "TOV"],
		"rowSet": [
			[2544, "LeBron James", "0022500123", "2025-11-03T00:00:00", "LAL @ BOS", "W", 36.5, 28, 8, 11, 1, 0, 4],
			[201939, "Stephen Curry", "0022500124", "2025-11-03T00:00:00", "GSW vs. DEN", "L", 34.0, 31, 4, 6, 2, null, 3],
			[1629029, "Luka Doncic", "0022500125", "not-a-date", "DAL vs. PHX", "W", 38.0, 35, 9, 10, 1, 1, 5]
		]
	}]
}`

func TestParseGameLogs(t *testing.T) {
	var logs LogResponse
	if err := json.Unmarshal([]byte(sampleResponse), &logs); err != nil {
		t.Fatalf("decoding sample: %v", err)
	}

	rows, err := ParseGameLogs(&logs)
	if err != nil {
		t.Fatalf("ParseGameLogs() failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.PlayerID != "2544" {
		t.Fatalf("expected numeric player id rendered as string, got %q", first.PlayerID)
	}
	if first.PlayerName != "LeBron James" || first.GameID != "0022500123" {
		t.Fatalf("unexpected identity fields: %+v", first)
	}
	if first.GameDate.Format("2006-01-02") != "2025-11-03" {
		t.Fatalf("unexpected date: %v", first.GameDate)
	}
	if first.Matchup != "LAL @ BOS" || first.Outcome != "W" {
		t.Fatalf("unexpected game context: %+v", first)
	}
	if first.Points != 28 || first.Turnovers != 4 {
		t.Fatalf("unexpected stats: %+v", first)
	}

	// Null stat cells default to 0, never null.
	if rows[1].Blocks != 0 {
		t.Fatalf("expected null blocks to parse as 0, got %v", rows[1].Blocks)
	}

	// Unparseable dates come back zero for the sync service to drop.
	if !rows[2].GameDate.IsZero() {
		t.Fatalf("expected zero date for bad GAME_DATE, got %v", rows[2].GameDate)
	}
}

func TestParseGameLogsMissingColumn(t *testing.T) {
	logs := &LogResponse{ResultSets: []ResultSet{{
		Name:    "PlayerGameLogs",
		Headers: []string{"PLAYER_ID", "PLAYER_NAME"},
	}}}

	if _, err := ParseGameLogs(logs); err == nil {
		t.Fatal("expected error for missing GAME_ID column")
	}
}

func TestParseGameLogsNoResultSet(t *testing.T) {
	if _, err := ParseGameLogs(&LogResponse{}); err == nil {
		t.Fatal("expected error for empty response")
	}
}
