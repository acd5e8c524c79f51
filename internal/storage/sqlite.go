// Package storage provides SQLite-based persistence for recorded simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunRecord is one recorded headless run.
type RunRecord struct {
	ID               int64
	Scene            string
	Quality          string
	Seed             int64
	Nodes            int
	Iterations       int
	StepTime         float64
	Steps            int
	Ticks            int
	Snapshots        int
	PartialSnapshots int
	Failures         int
	SimSeconds       float64
	Wall             time.Duration
	Positions        []mgl64.Vec2 // Final node positions
	CreatedAt        time.Time
}

// StepsPerSecond returns how many fixed steps the run executed per wall second.
func (r RunRecord) StepsPerSecond() float64 {
	if r.Wall <= 0 {
		return 0
	}
	return float64(r.Steps) / r.Wall.Seconds()
}

// SceneStats contains aggregated statistics for a scene.
type SceneStats struct {
	Scene         string
	Runs          int
	TotalSteps    int64
	AvgWall       time.Duration
	BestWall      time.Duration
	TotalFailures int
	LastRun       time.Time
}

const runColumns = `id, scene, quality, seed, nodes, iterations, step_time, steps, ticks,
	snapshots, partial_snapshots, failures, sim_seconds, wall_ms, positions, created_at`

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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene TEXT NOT NULL,
			quality TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			nodes INTEGER NOT NULL,
			iterations INTEGER NOT NULL,
			step_time REAL NOT NULL,
			steps INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			snapshots INTEGER NOT NULL DEFAULT 0,
			partial_snapshots INTEGER NOT NULL DEFAULT 0,
			failures INTEGER NOT NULL DEFAULT 0,
			sim_seconds REAL NOT NULL DEFAULT 0,
			wall_ms INTEGER NOT NULL DEFAULT 0,
			positions TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scene ON runs(scene);
		CREATE INDEX IF NOT EXISTS idx_runs_recent ON runs(scene, created_at DESC);
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

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	positions, err := encodePositions(r.Positions)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode positions: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (scene, quality, seed, nodes, iterations, step_time, steps, ticks,
		  snapshots, partial_snapshots, failures, sim_seconds, wall_ms, positions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Scene,
		r.Quality,
		r.Seed,
		r.Nodes,
		r.Iterations,
		r.StepTime,
		r.Steps,
		r.Ticks,
		r.Snapshots,
		r.PartialSnapshots,
		r.Failures,
		r.SimSeconds,
		r.Wall.Milliseconds(),
		positions,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the latest runs of a scene, newest first.
// An empty scene lists runs of every scene.
func (s *Store) RecentRuns(scene string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if scene != "" {
		query += ` WHERE scene = ?`
		args = append(args, scene)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a single run. Returns nil if it does not exist.
func (s *Store) RunByID(id int64) (*RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ClearRuns deletes all runs of the given scene.
func (s *Store) ClearRuns(scene string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scene = ?", scene)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// GetSceneStats retrieves aggregated statistics for a specific scene.
func (s *Store) GetSceneStats(scene string) (*SceneStats, error) {
	stats := &SceneStats{Scene: scene}

	var avgWall float64
	var bestWall int64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(steps), 0), COALESCE(AVG(wall_ms), 0),
		        COALESCE(MIN(wall_ms), 0), COALESCE(SUM(failures), 0)
		 FROM runs WHERE scene = ?`,
		scene,
	).Scan(&stats.Runs, &stats.TotalSteps, &avgWall, &bestWall, &stats.TotalFailures)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	stats.AvgWall = time.Duration(avgWall * float64(time.Millisecond))
	stats.BestWall = time.Duration(bestWall) * time.Millisecond

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE scene = ? ORDER BY created_at DESC LIMIT 1`,
		scene,
	).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}

// GetAllSceneStats retrieves statistics for every scene that has been run.
func (s *Store) GetAllSceneStats() (map[string]*SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT scene, COUNT(*), SUM(steps), AVG(wall_ms), MIN(wall_ms), SUM(failures), MAX(created_at)
		 FROM runs
		 GROUP BY scene`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all scene stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SceneStats)
	for rows.Next() {
		var st SceneStats
		var avgWall float64
		var bestWall int64
		var lastRun any
		if err := rows.Scan(&st.Scene, &st.Runs, &st.TotalSteps, &avgWall, &bestWall, &st.TotalFailures, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.AvgWall = time.Duration(avgWall * float64(time.Millisecond))
		st.BestWall = time.Duration(bestWall) * time.Millisecond
		st.LastRun = parseTime(lastRun)

		stats[st.Scene] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	var wallMS int64
	var positions string
	var createdAt any

	err := row.Scan(
		&r.ID,
		&r.Scene,
		&r.Quality,
		&r.Seed,
		&r.Nodes,
		&r.Iterations,
		&r.StepTime,
		&r.Steps,
		&r.Ticks,
		&r.Snapshots,
		&r.PartialSnapshots,
		&r.Failures,
		&r.SimSeconds,
		&wallMS,
		&positions,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	r.Wall = time.Duration(wallMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	if r.Positions, err = decodePositions(positions); err != nil {
		return r, fmt.Errorf("storage: run %d: cannot decode positions: %w", r.ID, err)
	}
	return r, nil
}

// parseTime handles the datetime as either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Positions are stored as a JSON array of [x, y] pairs.
func encodePositions(ps []mgl64.Vec2) (string, error) {
	if ps == nil {
		ps = []mgl64.Vec2{}
	}
	data, err := json.Marshal(ps)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePositions(s string) ([]mgl64.Vec2, error) {
	var ps []mgl64.Vec2
	if err := json.Unmarshal([]byte(s), &ps); err != nil {
		return nil, err
	}
	return ps, nil
}
