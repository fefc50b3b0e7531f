package store

import (
	"context"
	"errors"
)

// MinSearchPrefix is the shortest prefix, in runes, that
// SearchPlayerNames will match. Anything shorter returns an empty
// result instead of scanning the table.
const MinSearchPrefix = 2

// ErrUnavailable reports that the underlying storage cannot be reached.
// It is fatal for the request, not for the process.
var ErrUnavailable = errors.New("row store unavailable")

// RowStore is an abstract source of per-player, per-game records.
// Implementations must make InsertRows idempotent with respect to the
// (player_id, game_id) dedup key and must serialize concurrent writers.
// Reads never observe a torn row.
type RowStore interface {
	// InsertRows inserts the rows not already present by dedup key and
	// returns how many were actually written. A store that does not
	// exist yet is created empty, not treated as an error.
	InsertRows(ctx context.Context, rows []GameRow) (int, error)

	// QueryByPlayer returns all rows whose player name contains the
	// given name, case-insensitively. No matches is an empty slice,
	// not an error; the caller decides whether that is user-facing.
	QueryByPlayer(ctx context.Context, name string) ([]GameRow, error)

	// SearchPlayerNames returns up to limit distinct player names with
	// the given case-insensitive prefix, sorted. Prefixes shorter than
	// MinSearchPrefix return an empty result.
	SearchPlayerNames(ctx context.Context, prefix string, limit int) ([]string, error)

	// HealthCheck verifies the store is reachable.
	HealthCheck(ctx context.Context) error

	Close() error
}
