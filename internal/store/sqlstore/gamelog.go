package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/courtdata/gamelog/internal/store"
)

// likeEscaper quotes LIKE metacharacters so user input always matches
// literally. Both drivers honor ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// InsertRows inserts game rows not already present by (player_id,
// game_id) and returns the number actually written. The whole batch
// runs in one transaction, so a crash mid-sync leaves already-committed
// rows intact and re-running resumes via the dedup key.
func (s *Store) InsertRows(ctx context.Context, rows []store.GameRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO game_rows (player_id, player_name, game_id, game_date, matchup, wl, min, pts, reb, ast, stl, blk, tov)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (player_id, game_id) DO NOTHING
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range rows {
		res, err := stmt.ExecContext(ctx,
			row.PlayerID, row.PlayerName, row.GameID, row.GameDate, row.Matchup, row.Outcome,
			row.Minutes, row.Points, row.Rebounds, row.Assists, row.Steals, row.Blocks, row.Turnovers,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting game %s for player %s: %w", row.GameID, row.PlayerID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing insert: %w", err)
	}

	return inserted, nil
}

// QueryByPlayer returns all rows whose player name contains the given
// name, case-insensitively. No matches yields an empty slice.
func (s *Store) QueryByPlayer(ctx context.Context, name string) ([]store.GameRow, error) {
	const query = `
		SELECT player_id, player_name, game_id, game_date, matchup, wl, min, pts, reb, ast, stl, blk, tov
		FROM game_rows
		WHERE LOWER(player_name) LIKE LOWER($1) ESCAPE '\'
		ORDER BY game_date, game_id
	`

	rows, err := s.conn.QueryContext(ctx, query, "%"+likeEscaper.Replace(name)+"%")
	if err != nil {
		return nil, fmt.Errorf("querying game rows: %w", err)
	}
	defer rows.Close()

	return scanGameRows(rows)
}

// SearchPlayerNames returns up to limit distinct player names with the
// given case-insensitive prefix. Prefixes shorter than MinSearchPrefix
// return an empty result without touching the table.
func (s *Store) SearchPlayerNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	if utf8.RuneCountInString(prefix) < store.MinSearchPrefix {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	const query = `
		SELECT DISTINCT player_name
		FROM game_rows
		WHERE LOWER(player_name) LIKE LOWER($1) ESCAPE '\'
		ORDER BY player_name
		LIMIT $2
	`

	rows, err := s.conn.QueryContext(ctx, query, likeEscaper.Replace(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching player names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning player name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// scanGameRows is a helper to scan multiple game rows.
func scanGameRows(rows *sql.Rows) ([]store.GameRow, error) {
	out := []store.GameRow{}
	for rows.Next() {
		var row store.GameRow
		err := rows.Scan(
			&row.PlayerID, &row.PlayerName, &row.GameID, &row.GameDate, &row.Matchup, &row.Outcome,
			&row.Minutes, &row.Points, &row.Rebounds, &row.Assists, &row.Steals, &row.Blocks, &row.Turnovers,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
