// Package postgres implements the reference storage backend using pgx v5.
//
// A connection is dialed per operation under the configured retry policy
// and closed before the operation returns; nothing is pooled or shared
// between calls. Inserts run row by row inside one transaction, with a
// savepoint around each row so a bad row rolls back alone while the rest
// of the batch commits.
package postgres

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bintangfajarr/csv-data-cleansing/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // pgx connection string, keyword/value or URL form
	Retry storage.RetryPolicy
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	cfg Config
}

// connectFn is a test hook that points to pgx.Connect by default.
var connectFn = func(ctx context.Context, dsn string) (*pgx.Conn, error) {
	return pgx.Connect(ctx, dsn)
}

// NewRepository validates the DSN and returns a Repository plus a Close
// function for cleanup. No connection is opened here; each operation
// dials its own.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	// Parse early to fail fast on obvious mistakes.
	if _, err := pgx.ParseConfig(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("postgres: dsn: %w", err)
	}
	closeFn := func() {}
	return &Repository{cfg: cfg}, closeFn, nil
}

// withConn dials a fresh connection under the retry policy, runs fn, and
// closes the connection again.
func (r *Repository) withConn(ctx context.Context, fn func(conn *pgx.Conn) error) error {
	var conn *pgx.Conn
	err := storage.Dial(ctx, r.cfg.Retry, "postgres", func(ctx context.Context) error {
		c, err := connectFn(ctx, r.cfg.DSN)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(ctx) }()
	return fn(conn)
}

// InsertRows inserts rows one at a time into table. Each row runs under a
// savepoint: a failing row is logged and rolled back on its own, then the
// loop moves on. Whatever survived commits together at the end. Sequence
// values ([]string) are passed to pgx as-is and land in text[] columns.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (storage.InsertResult, error) {
	var res storage.InsertResult
	if len(rows) == 0 {
		return res, nil
	}
	if len(columns) == 0 {
		return res, fmt.Errorf("postgres: InsertRows: columns must not be empty")
	}
	stmt := insertSQL(table, columns)

	err := r.withConn(ctx, func(conn *pgx.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		for i, row := range rows {
			if len(row) != len(columns) {
				return fmt.Errorf("row %d length %d != columns length %d", i, len(row), len(columns))
			}
			if _, err := tx.Exec(ctx, "SAVEPOINT row_insert"); err != nil {
				return fmt.Errorf("savepoint: %w", err)
			}
			if _, err := tx.Exec(ctx, stmt, row...); err != nil {
				log.Printf("postgres: skipping row %d of %s: %v", i, table, err)
				res.Failed++
				if _, err := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT row_insert"); err != nil {
					return fmt.Errorf("rollback to savepoint: %w", err)
				}
				continue
			}
			if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT row_insert"); err != nil {
				return fmt.Errorf("release savepoint: %w", err)
			}
			res.Inserted++
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("postgres: insert into %s: %w", table, err)
	}
	return res, nil
}

// Count returns SELECT COUNT(*) for table.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := r.withConn(ctx, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgFQN(table)).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("postgres: count %s: %w", table, err)
	}
	return n, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	err := r.withConn(ctx, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, stmt)
		return err
	})
	if err != nil {
		return fmt.Errorf("postgres: exec: %w", err)
	}
	return nil
}

// insertSQL builds INSERT INTO <table> (<cols>) VALUES ($1, $2, ...).
func insertSQL(table string, columns []string) string {
	ph := make([]string, len(columns))
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		pgFQN(table),
		strings.Join(mapIdent(columns), ", "),
		strings.Join(ph, ", "),
	)
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.data" to
// "public"."data". If no dot is present, returns a single quoted ident.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// mapIdent maps a list of column names to their quoted forms.
func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgIdent(c)
	}
	return out
}
