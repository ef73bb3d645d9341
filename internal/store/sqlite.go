package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"quantrisk/internal/errors"
)

// SQLiteStore implements RunStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based run store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		instrument_id TEXT NOT NULL,
		model TEXT NOT NULL,
		paths INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		price TEXT NOT NULL,
		delta TEXT NOT NULL,
		gamma TEXT NOT NULL,
		vega TEXT NOT NULL,
		rho TEXT NOT NULL,
		theta TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_instrument ON runs(instrument_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun implements RunStore.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, instrument_id, model, paths, seed,
			price, delta, gamma, vega, rho, theta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.InstrumentID, run.Model, run.Paths, int64(run.Seed),
		run.Price.String(), run.Delta.String(), run.Gamma.String(),
		run.Vega.String(), run.Rho.String(), run.Theta.String())
	return errors.Wrap(err, "saving run")
}

// GetRun implements RunStore.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, instrument_id, model, paths, seed,
			price, delta, gamma, vega, rho, theta
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrRunNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fetching run")
	}
	return run, nil
}

// ListRuns implements RunStore.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT id, created_at, instrument_id, model, paths, seed,
		price, delta, gamma, vega, rho, theta FROM runs`
	var conds []string
	var args []interface{}
	if filter.InstrumentID != "" {
		conds = append(conds, "instrument_id = ?")
		args = append(args, filter.InstrumentID)
	}
	if filter.Model != "" {
		conds = append(conds, "model = ?")
		args = append(args, filter.Model)
	}
	if !filter.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.Since)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning run")
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Close implements RunStore.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var seed int64
	var price, delta, gamma, vega, rho, theta string
	if err := row.Scan(&run.ID, &run.CreatedAt, &run.InstrumentID, &run.Model,
		&run.Paths, &seed, &price, &delta, &gamma, &vega, &rho, &theta); err != nil {
		return nil, err
	}
	run.Seed = uint64(seed)

	var err error
	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&run.Price, price}, {&run.Delta, delta}, {&run.Gamma, gamma},
		{&run.Vega, vega}, {&run.Rho, rho}, {&run.Theta, theta},
	} {
		if *field.dst, err = decimal.NewFromString(field.src); err != nil {
			return nil, err
		}
	}
	return &run, nil
}
