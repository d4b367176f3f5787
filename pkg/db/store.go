package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yumyai/amrloc/internal/util"
	"github.com/yumyai/amrloc/pkg/table"
)

const (
	LinkedTable = "linked_hits"
	RunsTable   = "pipeline_runs"
)

type NoTableError struct {
	Name string
}

func (e *NoTableError) Error() string {
	return fmt.Sprintf("table %s does not exist, run the link stage with a database first", e.Name)
}

// Store keeps a SQLite copy of the linked table next to the CSV outputs, so
// the tables can be queried without re-running the join.
type Store struct {
	db    *sql.DB
	RunID string
}

func NewStore(db *sql.DB, runID string) *Store {
	return &Store{db: db, RunID: runID}
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path, runID string) (*Store, error) {
	if err := util.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewStore(db, runID), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunRecord is one row of the provenance table.
type RunRecord struct {
	RunID     string
	Stage     string
	Rows      int
	CreatedAt time.Time
}

// SaveLinked replaces the linked_hits table with t and records the run.
func (s *Store) SaveLinked(ctx context.Context, t *table.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	if err := replaceTable(ctx, tx, LinkedTable, t); err != nil {
		return err
	}
	if err := recordRun(ctx, tx, s.RunID, "link", t.Len()); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadLinked reads linked_hits back in insertion order.
func (s *Store) LoadLinked(ctx context.Context) (*table.Table, error) {
	return s.loadTable(ctx, LinkedTable)
}

// Runs lists the recorded runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	if err := ensureRunsTable(ctx, s.db); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, stage, row_count, created_at FROM `+RunsTable+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var created string
		if err := rows.Scan(&r.RunID, &r.Stage, &r.Rows, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse run time %q: %w", created, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *Store) loadTable(ctx context.Context, name string) (*table.Table, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &NoTableError{Name: name}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT * FROM `+quoteIdent(name)+` ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	t := table.New(cols...)
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		r := make([]string, len(cols))
		for i, c := range cells {
			r[i] = c.String
		}
		t.Rows = append(t.Rows, r)
	}
	return t, rows.Err()
}

func replaceTable(ctx context.Context, tx *sql.Tx, name string, t *table.Table) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+quoteIdent(name)); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}

	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}
	create := fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s VALUES (%s)`, quoteIdent(name), strings.Join(marks, ", "))
	stm, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stm.Close()

	args := make([]any, len(t.Columns))
	for _, r := range t.Rows {
		for i, v := range r {
			args[i] = v
		}
		if _, err := stm.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func ensureRunsTable(ctx context.Context, db execer) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+RunsTable+` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create %s: %w", RunsTable, err)
	}
	return nil
}

func recordRun(ctx context.Context, tx *sql.Tx, runID, stage string, rows int) error {
	if err := ensureRunsTable(ctx, tx); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO `+RunsTable+` (run_id, stage, row_count, created_at) VALUES (?, ?, ?, ?)`,
		runID, stage, rows, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
