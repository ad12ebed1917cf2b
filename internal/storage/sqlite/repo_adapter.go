// Adapter wiring: registers the "sqlite" backend and its DDL bootstrapper
// with the storage factory at init time.
package sqlite

import (
	"context"
	"fmt"

	"github.com/bintangfajarr/csv-data-cleansing/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Retry: cfg.Retry})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("sqlite",
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
