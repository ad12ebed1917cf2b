// Package mysql implements a MySQL storage backend over database/sql and
// go-sql-driver/mysql. Sequence columns are stored as JSON text. Every
// operation opens a fresh connection under the retry policy and closes it
// before returning.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/bintangfajarr/csv-data-cleansing/internal/storage"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN   string // e.g. "user:pass@tcp(localhost:3306)/test_db"
	Retry storage.RetryPolicy
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	cfg Config
}

// NewRepository validates the DSN and returns a Repository plus a Close
// function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	closeFn := func() {}
	return &Repository{cfg: cfg}, closeFn, nil
}

func (r *Repository) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	var db *sql.DB
	err := storage.Dial(ctx, r.cfg.Retry, "mysql", func(ctx context.Context) error {
		d, err := sql.Open("mysql", r.cfg.DSN)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := d.PingContext(pingCtx); err != nil {
			_ = d.Close()
			return err
		}
		db = d
		return nil
	})
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

// InsertRows inserts rows one at a time inside a single transaction, a
// savepoint around each row. Failing rows are logged and skipped.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (storage.InsertResult, error) {
	var res storage.InsertResult
	if len(rows) == 0 {
		return res, nil
	}
	if len(columns) == 0 {
		return res, fmt.Errorf("mysql: InsertRows: columns must not be empty")
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
				log.Printf("mysql: skipping row %d of %s: %v", i, table, err)
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
		return res, fmt.Errorf("mysql: insert into %s: %w", table, err)
	}
	return res, nil
}

// Count returns SELECT COUNT(*) for table.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := r.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+myFQN(table)).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("mysql: count %s: %w", table, err)
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
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// insertSQL builds INSERT INTO <table> (<cols>) VALUES (?, ?, ...).
func insertSQL(table string, columns []string) string {
	ph := make([]string, len(columns))
	quoted := make([]string, len(columns))
	for i, c := range columns {
		ph[i] = "?"
		quoted[i] = myIdent(c)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		myFQN(table),
		strings.Join(quoted, ", "),
		strings.Join(ph, ", "),
	)
}

// myIdent safely quotes a single identifier segment with backticks.
func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// myFQN quotes a possibly schema-qualified name like "test_db.data".
func myFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = myIdent(p)
	}
	return strings.Join(parts, ".")
}
