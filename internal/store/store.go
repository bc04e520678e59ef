// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/verte-zerg/tuimon/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// highScoreKey names the persisted high-score scalar. The value is stored
// as a string; an absent key reads as zero.
const highScoreKey = "high_score"

// Store wraps SQLite access for scores and game history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			level INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BestScore returns the persisted high score. An absent or unparseable
// value reads as zero.
func (s *Store) BestScore(ctx context.Context) (int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, highScoreKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, nil
	}
	return v, nil
}

// SetBestScore stores the high score, rendered as a string.
func (s *Store) SetBestScore(ctx context.Context, score int) error {
	if score < 0 {
		return fmt.Errorf("high score must be non-negative, got %d", score)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		highScoreKey, strconv.Itoa(score))
	return err
}

// InsertGame records a finished game.
func (s *Store) InsertGame(ctx context.Context, rec model.GameRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games (started_at, ended_at, level) VALUES (?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Level)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListGames returns the most recent finished games in chronological order.
// last <= 0 means no limit.
func (s *Store) ListGames(ctx context.Context, last int) ([]model.GameRecord, error) {
	query := `SELECT id, started_at, ended_at, level FROM games ORDER BY ended_at ASC`
	args := []any{}
	if last > 0 {
		query = `SELECT id, started_at, ended_at, level FROM (
			SELECT id, started_at, ended_at, level FROM games
			ORDER BY ended_at DESC LIMIT ?
		) ORDER BY ended_at ASC`
		args = append(args, last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameRecord
	for rows.Next() {
		var rec model.GameRecord
		var started, ended string
		if err := rows.Scan(&rec.ID, &started, &ended, &rec.Level); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, err
		}
		games = append(games, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}
