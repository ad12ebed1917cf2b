// Package sqlite implements a SQLite storage backend using database/sql
// and the cgo-free modernc.org driver. Sequence columns are stored as
// JSON text; SQLite has no array type.
//
// Like the other backends, every operation opens a fresh connection under
// the retry policy and closes it before returning.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"github.com/bintangfajarr/csv-data-cleansing/internal/storage"
)

// Config holds SQLite repository configuration.
type Config struct {
	DSN   string // e.g. "file:cleanse.db?cache=shared" or a plain path
	Retry storage.RetryPolicy
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	cfg Config
}

// NewRepository validates the DSN and returns a Repository plus a Close
// function for cleanup. Use a file DSN: operations open their own
// connection each time, so ":memory:" would present an empty database on
// every call.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	closeFn := func() {}
	return &Repository{cfg: cfg}, closeFn, nil
}

// withDB opens a database handle under the retry policy, runs fn, and
// closes the handle again.
func (r *Repository) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	var db *sql.DB
	err := storage.Dial(ctx, r.cfg.Retry, "sqlite", func(ctx context.Context) error {
		d, err := sql.Open("sqlite", r.cfg.DSN)
		if err != nil {
			return err
		}
		// A basic ping with timeout fails fast on invalid DSNs.
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := d.PingContext(pingCtx); err != nil {
			_ = d.Close()
			return err
		}
		// Enable foreign keys; ignore error if the driver doesn't support it.
		_, _ = d.ExecContext(ctx, "PRAGMA foreign_keys = ON;")
		db = d
		return nil
	})
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

// InsertRows inserts rows one at a time inside a single transaction. Each
// row runs under a savepoint so a failing row is logged, rolled back
// alone, and skipped; the rest of the batch commits.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (storage.InsertResult, error) {
	var res storage.InsertResult
	if len(rows) == 0 {
		return res, nil
	}
	if len(columns) == 0 {
		return res, fmt.Errorf("sqlite: InsertRows: columns must not be empty")
	}
	stmtSQL := insertSQL(table, columns)

	err := r.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, stmtSQL)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, row := range rows {
			if len(row) != len(columns) {
				return fmt.Errorf("row %d length %d != columns length %d", i, len(row), len(columns))
			}
			vals := storage.FlattenSequences(row)
			if _, err := tx.ExecContext(ctx, "SAVEPOINT row_insert"); err != nil {
				return fmt.Errorf("savepoint: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, vals...); err != nil {
				log.Printf("sqlite: skipping row %d of %s: %v", i, table, err)
				res.Failed++
				if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT row_insert"); err != nil {
					return fmt.Errorf("rollback to savepoint: %w", err)
				}
				continue
			}
			if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT row_insert"); err != nil {
				return fmt.Errorf("release savepoint: %w", err)
			}
			res.Inserted++
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("sqlite: insert into %s: %w", table, err)
	}
	return res, nil
}

// Count returns SELECT COUNT(*) for table.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := r.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+liteFQN(table)).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("sqlite: count %s: %w", table, err)
	}
	return n, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	err := r.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
	if err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// insertSQL builds INSERT INTO <table> (<cols>) VALUES (?, ?, ...).
func insertSQL(table string, columns []string) string {
	ph := make([]string, len(columns))
	quoted := make([]string, len(columns))
	for i, c := range columns {
		ph[i] = "?"
		quoted[i] = liteIdent(c)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		liteFQN(table),
		strings.Join(quoted, ", "),
		strings.Join(ph, ", "),
	)
}

// liteIdent safely quotes a single identifier segment for SQLite.
func liteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// liteFQN quotes a possibly schema-qualified name like "main.data".
func liteFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = liteIdent(p)
	}
	return strings.Join(parts, ".")
}
