// Package storage provides SQLite-based persistence for batch history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/walksim/internal/stats"
)

// DefaultPath is where the CLI keeps its history database.
const DefaultPath = "~/.walksim/history.db"

// Store manages the SQLite database connection for batch history.
type Store struct {
	db *sql.DB
}

// Batch describes one finished batch.
type Batch struct {
	ID          string
	Scenario    string // Config source the batch was built from
	Runs        int
	Steps       int
	Seed        int64
	Interaction string
	Workers     int
	Completed   int
	Aborted     int
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// WalkerSummary holds the headline numbers of one walker in a batch.
type WalkerSummary struct {
	BatchID      string
	Walker       string
	Runs         int
	AvgEscape    float64
	Escaped      int
	NeverEscaped int

	// Averages at the final step.
	FinalOrigin    float64
	FinalFromX     float64
	FinalFromY     float64
	FinalCrossings float64
}

// ErrNotFound is returned when a batch ID is unknown.
var ErrNotFound = errors.New("storage: batch not found")

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
		CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			runs INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			interaction TEXT NOT NULL DEFAULT '',
			workers INTEGER NOT NULL DEFAULT 1,
			completed INTEGER NOT NULL DEFAULT 0,
			aborted INTEGER NOT NULL DEFAULT 0,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at DESC);

		CREATE TABLE IF NOT EXISTS walker_summaries (
			batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
			walker TEXT NOT NULL,
			runs INTEGER NOT NULL,
			avg_escape REAL NOT NULL DEFAULT 0,
			escaped INTEGER NOT NULL DEFAULT 0,
			never_escaped INTEGER NOT NULL DEFAULT 0,
			final_origin REAL NOT NULL DEFAULT 0,
			final_from_x REAL NOT NULL DEFAULT 0,
			final_from_y REAL NOT NULL DEFAULT 0,
			final_crossings REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (batch_id, walker)
		);
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

// SaveBatch records a batch and the per-walker summaries of its statistics
// in one transaction. An empty b.ID gets a fresh UUID. Returns the batch ID.
func (s *Store) SaveBatch(b Batch, st *stats.Statistics) (string, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO batches
		 (id, scenario, runs, steps, seed, interaction, workers, completed, aborted, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Scenario, b.Runs, b.Steps, b.Seed, b.Interaction,
		b.Workers, b.Completed, b.Aborted, b.Elapsed.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save batch: %w", err)
	}

	for _, sum := range Summarize(st) {
		_, err := tx.Exec(
			`INSERT INTO walker_summaries
			 (batch_id, walker, runs, avg_escape, escaped, never_escaped,
			  final_origin, final_from_x, final_from_y, final_crossings)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, sum.Walker, sum.Runs, sum.AvgEscape, sum.Escaped, sum.NeverEscaped,
			sum.FinalOrigin, sum.FinalFromX, sum.FinalFromY, sum.FinalCrossings,
		)
		if err != nil {
			return "", fmt.Errorf("storage: cannot save summary for %s: %w", sum.Walker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit batch: %w", err)
	}
	return b.ID, nil
}

// Summarize reduces statistics to one summary per walker, ordered by name.
// BatchID is left empty.
func Summarize(st *stats.Statistics) []WalkerSummary {
	if st == nil || st.Empty() {
		return nil
	}
	origin := st.AverageDistanceOrigin()
	fromX := st.AverageDistanceFromX()
	fromY := st.AverageDistanceFromY()
	crossings := st.AverageCrossings()
	escapes := st.AverageEscapeTime()

	names := st.Walkers()
	out := make([]WalkerSummary, 0, len(names))
	for _, name := range names {
		esc := escapes[name]
		out = append(out, WalkerSummary{
			Walker:         name,
			Runs:           st.Runs(name),
			AvgEscape:      esc.Average,
			Escaped:        esc.Escaped,
			NeverEscaped:   esc.NeverEscaped,
			FinalOrigin:    origin[name].Last(),
			FinalFromX:     fromX[name].Last(),
			FinalFromY:     fromY[name].Last(),
			FinalCrossings: crossings[name].Last(),
		})
	}
	return out
}

// RecentBatches retrieves the most recent batches, newest first.
func (s *Store) RecentBatches(limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scenario, runs, steps, seed, interaction, workers,
		        completed, aborted, elapsed_ms, created_at
		 FROM batches
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return batches, nil
}

// BatchByID retrieves one batch. Returns ErrNotFound for unknown IDs.
func (s *Store) BatchByID(id string) (*Batch, error) {
	row := s.db.QueryRow(
		`SELECT id, scenario, runs, steps, seed, interaction, workers,
		        completed, aborted, elapsed_ms, created_at
		 FROM batches
		 WHERE id = ?`,
		id,
	)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query batch: %w", err)
	}
	return &b, nil
}

// Summaries retrieves the walker summaries of a batch, ordered by walker name.
func (s *Store) Summaries(batchID string) ([]WalkerSummary, error) {
	rows, err := s.db.Query(
		`SELECT batch_id, walker, runs, avg_escape, escaped, never_escaped,
		        final_origin, final_from_x, final_from_y, final_crossings
		 FROM walker_summaries
		 WHERE batch_id = ?
		 ORDER BY walker`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query summaries: %w", err)
	}
	defer rows.Close()

	var out []WalkerSummary
	for rows.Next() {
		var w WalkerSummary
		if err := rows.Scan(
			&w.BatchID,
			&w.Walker,
			&w.Runs,
			&w.AvgEscape,
			&w.Escaped,
			&w.NeverEscaped,
			&w.FinalOrigin,
			&w.FinalFromX,
			&w.FinalFromY,
			&w.FinalCrossings,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// DeleteBatch removes a batch and its summaries.
func (s *Store) DeleteBatch(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM walker_summaries WHERE batch_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete summaries: %w", err)
	}
	res, err := tx.Exec("DELETE FROM batches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(sc scanner) (Batch, error) {
	var (
		b         Batch
		elapsedMS int64
		createdAt any
	)
	if err := sc.Scan(
		&b.ID,
		&b.Scenario,
		&b.Runs,
		&b.Steps,
		&b.Seed,
		&b.Interaction,
		&b.Workers,
		&b.Completed,
		&b.Aborted,
		&elapsedMS,
		&createdAt,
	); err != nil {
		return Batch{}, err
	}
	b.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	b.CreatedAt = parseTime(createdAt)
	return b, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
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
