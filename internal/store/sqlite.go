package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	func       TEXT NOT NULL,
	a          REAL,
	b          REAL,
	tol        REAL,
	max_iter   INTEGER NOT NULL,
	status     TEXT NOT NULL,
	x          REAL,
	fx         REAL,
	err        TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE TABLE IF NOT EXISTS iterations (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	k      INTEGER NOT NULL,
	a      REAL,
	b      REAL,
	xmid   REAL,
	fxmid  REAL,
	PRIMARY KEY (run_id, k)
);
`

// SQLite is a Store backed by a SQLite file.
type SQLite struct {
	db *sql.DB
}

// sqliteDSN builds the connection string with the pragmas we rely on
func sqliteDSN(file string) string {
	params := make(url.Values)
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_txlock", "immediate")
	return "file:" + file + "?" + params.Encode()
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single connection serializes writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, r *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, func, a, b, tol, max_iter, status, x, fx, err, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Func, r.Params.A, r.Params.B, r.Params.Tol, r.Params.MaxIter,
		r.Status.String(), r.X, r.FX, r.Err, r.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM iterations WHERE run_id = ?`, r.ID); err != nil {
		return fmt.Errorf("failed to clear iterations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO iterations (run_id, k, a, b, xmid, fxmid) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare iteration insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range r.Iters {
		if _, err := stmt.ExecContext(ctx, r.ID, it.K, it.A, it.B, it.XMid, it.FXMid); err != nil {
			return fmt.Errorf("failed to save iteration %d: %w", it.K, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		r                Run
		status           string
		a, b, tol, x, fx sql.NullFloat64
		created          int64
	)
	if err := row.Scan(&r.ID, &r.Func, &a, &b, &tol, &r.Params.MaxIter, &status, &x, &fx, &r.Err, &created); err != nil {
		return nil, err
	}
	st, err := rootfind.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	r.Status = st
	r.Params.A, r.Params.B, r.Params.Tol = orNaN(a), orNaN(b), orNaN(tol)
	r.X, r.FX = orNaN(x), orNaN(fx)
	r.CreatedAt = time.Unix(0, created)
	return &r, nil
}

// orNaN maps NULL back to NaN; SQLite stores NaN as NULL.
func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

const runColumns = `id, func, a, b, tol, max_iter, status, x, fx, err, created_at`

func (s *SQLite) Get(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT k, a, b, xmid, fxmid FROM iterations WHERE run_id = ? ORDER BY k`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load iterations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it rootfind.Iter
		if err := rows.Scan(&it.K, &it.A, &it.B, &it.XMid, &it.FXMid); err != nil {
			return nil, err
		}
		r.Iters = append(r.Iters, it)
	}
	return r, rows.Err()
}

func (s *SQLite) List(ctx context.Context, limit int) ([]*Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	out := []*Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
