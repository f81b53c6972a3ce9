// Package results persists benchmark scores in SQLite so runs can be compared
// across models and scoring modes.
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultLimit = 50

	// DefaultPath is used when the config names no database file.
	DefaultPath = "data/mcq-bench.db"
)

type Store struct {
	db *sql.DB
}

// Entry is one scored benchmark run.
type Entry struct {
	ID         int64
	Model      string
	Provider   string // "logits" for local scoring, else the API provider
	Benchmark  string
	Comparison string // restricted|full
	Outcome    string // discrete|continuous
	Score      float64
	Examples   int
	DurationMS int64
	EvalDate   time.Time
}

// Open creates (or opens) the score database at dbPath; ":memory:" gives an
// ephemeral store.
func Open(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("results: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("results: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("results: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("results: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("results: nil db")
	}

	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS benchmark_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT NOT NULL,
			provider TEXT NOT NULL,
			benchmark TEXT NOT NULL,
			comparison TEXT NOT NULL,
			outcome TEXT NOT NULL,
			score REAL NOT NULL,
			examples INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			eval_date INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_benchmark ON benchmark_runs(benchmark)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_model_benchmark ON benchmark_runs(model, benchmark)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_eval_date ON benchmark_runs(eval_date)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("results: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts the run and backfills its ID and normalized fields.
func (s *Store) Save(ctx context.Context, entry *Entry) error {
	if s == nil || s.db == nil {
		return errors.New("results: nil store")
	}
	if ctx == nil {
		return errors.New("results: nil context")
	}
	if entry == nil {
		return errors.New("results: nil entry")
	}

	model := strings.TrimSpace(entry.Model)
	provider := strings.TrimSpace(entry.Provider)
	bench := strings.TrimSpace(entry.Benchmark)
	if model == "" || provider == "" || bench == "" {
		return errors.New("results: missing model/provider/benchmark")
	}
	if entry.Score < 0 || entry.Score > 1 {
		return fmt.Errorf("results: score %v outside [0,1]", entry.Score)
	}

	comparison := strings.TrimSpace(entry.Comparison)
	if comparison == "" {
		comparison = "restricted"
	}
	outcome := strings.TrimSpace(entry.Outcome)
	if outcome == "" {
		outcome = "discrete"
	}

	evalDate := entry.EvalDate
	if evalDate.IsZero() {
		evalDate = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO benchmark_runs (
			model, provider, benchmark, comparison, outcome, score, examples, duration_ms, eval_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, model, provider, bench, comparison, outcome, entry.Score, entry.Examples, entry.DurationMS, evalDate.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("results: insert run: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	entry.Model = model
	entry.Provider = provider
	entry.Benchmark = bench
	entry.Comparison = comparison
	entry.Outcome = outcome
	entry.EvalDate = evalDate
	return nil
}

// Best returns the top runs for a benchmark, best score first.
func (s *Store) Best(ctx context.Context, benchmark string, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("results: nil store")
	}
	if ctx == nil {
		return nil, errors.New("results: nil context")
	}
	benchmark = strings.TrimSpace(benchmark)
	if benchmark == "" {
		return nil, errors.New("results: empty benchmark")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, benchmark, comparison, outcome, score, examples, duration_ms, eval_date
		FROM benchmark_runs
		WHERE benchmark = ?
		ORDER BY score DESC, eval_date DESC
		LIMIT ?
	`, benchmark, limit)
	if err != nil {
		return nil, fmt.Errorf("results: query best: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// History returns every run of a model on a benchmark, newest first.
func (s *Store) History(ctx context.Context, model, benchmark string) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("results: nil store")
	}
	if ctx == nil {
		return nil, errors.New("results: nil context")
	}
	model = strings.TrimSpace(model)
	benchmark = strings.TrimSpace(benchmark)
	if model == "" || benchmark == "" {
		return nil, errors.New("results: missing model/benchmark")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, benchmark, comparison, outcome, score, examples, duration_ms, eval_date
		FROM benchmark_runs
		WHERE model = ? AND benchmark = ?
		ORDER BY eval_date DESC
	`, model, benchmark)
	if err != nil {
		return nil, fmt.Errorf("results: query history: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Recent returns the latest runs across all benchmarks.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("results: nil store")
	}
	if ctx == nil {
		return nil, errors.New("results: nil context")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, benchmark, comparison, outcome, score, examples, duration_ms, eval_date
		FROM benchmark_runs
		ORDER BY eval_date DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("results: query recent: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var evalDateMS int64
		if err := rows.Scan(
			&e.ID,
			&e.Model,
			&e.Provider,
			&e.Benchmark,
			&e.Comparison,
			&e.Outcome,
			&e.Score,
			&e.Examples,
			&e.DurationMS,
			&evalDateMS,
		); err != nil {
			return nil, fmt.Errorf("results: scan run: %w", err)
		}
		e.EvalDate = time.UnixMilli(evalDateMS).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("results: scan rows: %w", err)
	}
	return out, nil
}
