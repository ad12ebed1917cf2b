// This adapter wires the Postgres backend into the storage-agnostic
// factory by registering a constructor at init time. Callers obtain a
// Repository via storage.New(...) without importing this package
// directly, and a DDL bootstrapper is registered alongside so table
// creation can be driven off storage.Config.Kind alone.
package postgres

import (
	"context"
	"fmt"

	"github.com/bintangfajarr/csv-data-cleansing/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Ensure wrappedRepo satisfies storage.Repository at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Retry: cfg.Retry})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres",
		func(ctx context.Context, repo storage.Repository, dataTable, rejectTable string) error {
			if err := repo.Exec(ctx, createTableSQL(dataTable, false)); err != nil {
				return fmt.Errorf("create %s: %w", dataTable, err)
			}
			if err := repo.Exec(ctx, createTableSQL(rejectTable, true)); err != nil {
				return fmt.Errorf("create %s: %w", rejectTable, err)
			}
			return nil
		})
}
