package store

import (
	"time"
)

// GameRow is one player's statline for one game. Rows are append-only:
// the ingestion layer creates them once and they are never mutated.
// (player_id, game_id) is the dedup key for idempotent insertion.
type GameRow struct {
	PlayerID   string    `json:"player_id" db:"player_id"`
	PlayerName string    `json:"player_name" db:"player_name"`
	GameID     string    `json:"game_id" db:"game_id"`
	GameDate   time.Time `json:"game_date" db:"game_date"`
	Matchup    string    `json:"matchup" db:"matchup"`
	Outcome    string    `json:"wl" db:"wl"`
	Minutes    float64   `json:"min" db:"min"`
	Points     float64   `json:"pts" db:"pts"`
	Rebounds   float64   `json:"reb" db:"reb"`
	Assists    float64   `json:"ast" db:"ast"`
	Steals     float64   `json:"stl" db:"stl"`
	Blocks     float64   `json:"blk" db:"blk"`
	Turnovers  float64   `json:"tov" db:"tov"`
}

// StatColumns lists the stat columns a caller can select as a metric,
// in persisted-layout order. The turnovers column is stored as "tov"
// because TO is a reserved word in SQL; the provider and CSV boundaries
// still accept "TO".
var StatColumns = []string{"pts", "reb", "ast", "stl", "blk", "tov"}

// Stat returns the value of the named stat column. The second return
// is false for a column outside the supported set.
func (r GameRow) Stat(column string) (float64, bool) {
	switch column {
	case "pts":
		return r.Points, true
	case "reb":
		return r.Rebounds, true
	case "ast":
		return r.Assists, true
	case "stl":
		return r.Steals, true
	case "blk":
		return r.Blocks, true
	case "tov":
		return r.Turnovers, true
	}
	return 0, false
}

// DateOnly is the calendar-date layout used everywhere a game date
// crosses a text boundary (CSV files, JSON payloads).
const DateOnly = "2006-01-02"
