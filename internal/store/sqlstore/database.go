package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is the relational Row Store backend. It runs against either
// PostgreSQL or SQLite through database/sql; every query sticks to the
// SQL subset both engines share ($N placeholders, LOWER ... LIKE,
// ON CONFLICT DO NOTHING).
type Store struct {
	conn   *sql.DB
	driver string
}

// Open opens a relational store with the given driver ("postgres" or
// "sqlite3") and DSN, and creates the game_rows table if it is absent.
func Open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool. SQLite gets a single writer connection
	// so concurrent ingestion runs never interleave a partial insert.
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
		db.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{conn: db, driver: driver}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// ensureSchema creates the game_rows table and its lookup index. Using
// IF NOT EXISTS keeps Open idempotent; an existing store is reused,
// a missing one is created empty.
func (s *Store) ensureSchema() error {
	const table = `
		CREATE TABLE IF NOT EXISTS game_rows (
			player_id   TEXT NOT NULL,
			player_name TEXT NOT NULL,
			game_id     TEXT NOT NULL,
			game_date   DATE NOT NULL,
			matchup     TEXT NOT NULL DEFAULT '',
			wl          TEXT NOT NULL DEFAULT '',
			min         REAL NOT NULL DEFAULT 0,
			pts         REAL NOT NULL DEFAULT 0,
			reb         REAL NOT NULL DEFAULT 0,
			ast         REAL NOT NULL DEFAULT 0,
			stl         REAL NOT NULL DEFAULT 0,
			blk         REAL NOT NULL DEFAULT 0,
			tov         REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (player_id, game_id)
		)
	`
	if _, err := s.conn.Exec(table); err != nil {
		return err
	}

	const index = `CREATE INDEX IF NOT EXISTS game_rows_player_name_idx ON game_rows (player_name)`
	_, err := s.conn.Exec(index)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// HealthCheck pings the database with a short timeout.
func (s *Store) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return s.conn.PingContext(ctx)
}
