// Package storage provides SQLite-based persistence for episode results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for episode persistence.
type Store struct {
	db *sql.DB
}

// Rollout is one finished episode: what was played and how it ended.
type Rollout struct {
	ID        int64
	EnvID     string
	Steps     int
	Reward    float64
	FlagGet   bool
	World     int
	Stage     int
	XPos      int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rollouts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			env_id TEXT NOT NULL,
			steps INTEGER NOT NULL,
			reward REAL NOT NULL,
			flag_get INTEGER NOT NULL DEFAULT 0,
			world INTEGER NOT NULL DEFAULT 0,
			stage INTEGER NOT NULL DEFAULT 0,
			x_pos INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rollouts_env_id ON rollouts(env_id);
		CREATE INDEX IF NOT EXISTS idx_rollouts_top ON rollouts(env_id, reward DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRollout records a finished episode.
// Returns the ID of the inserted record.
func (s *Store) SaveRollout(r Rollout) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO rollouts (env_id, steps, reward, flag_get, world, stage, x_pos)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.EnvID, r.Steps, r.Reward, r.FlagGet, r.World, r.Stage, r.XPos,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save rollout: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRollouts retrieves the N best episodes for the given environment,
// ordered by reward descending.
func (s *Store) TopRollouts(envID string, limit int) ([]Rollout, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, env_id, steps, reward, flag_get, world, stage, x_pos, created_at
		 FROM rollouts
		 WHERE env_id = ?
		 ORDER BY reward DESC
		 LIMIT ?`,
		envID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rollouts: %w", err)
	}
	defer rows.Close()

	return scanRollouts(rows)
}

// RecentRollouts retrieves the most recent episodes across all
// environments.
func (s *Store) RecentRollouts(limit int) ([]Rollout, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, env_id, steps, reward, flag_get, world, stage, x_pos, created_at
		 FROM rollouts
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rollouts: %w", err)
	}
	defer rows.Close()

	return scanRollouts(rows)
}

// BestReward returns the highest episode reward recorded for the given
// environment. Returns 0 and false if no episodes exist.
func (s *Store) BestReward(envID string) (float64, bool, error) {
	var reward sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT MAX(reward) FROM rollouts WHERE env_id = ?",
		envID,
	).Scan(&reward)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best reward: %w", err)
	}

	if !reward.Valid {
		return 0, false, nil
	}
	return reward.Float64, true, nil
}

// ClearRollouts deletes all episodes for the given environment.
func (s *Store) ClearRollouts(envID string) error {
	_, err := s.db.Exec("DELETE FROM rollouts WHERE env_id = ?", envID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear rollouts: %w", err)
	}
	return nil
}

func scanRollouts(rows *sql.Rows) ([]Rollout, error) {
	var entries []Rollout
	for rows.Next() {
		var r Rollout
		var createdAt any
		if err := rows.Scan(&r.ID, &r.EnvID, &r.Steps, &r.Reward, &r.FlagGet,
			&r.World, &r.Stage, &r.XPos, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				r.CreatedAt = parsed
			}
		}
		entries = append(entries, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}
