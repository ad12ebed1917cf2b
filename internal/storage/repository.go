// Package storage contains the storage-agnostic contracts for the
// cleansing job: the Repository interface, a kind-keyed factory that
// backends register into at init time, the bounded-retry connection
// policy, and the DDL bootstrap registry.
//
// Backends live in subpackages (postgres, sqlite, mysql, mssql) and are
// enabled together by blank-importing storage/all. Callers pick one at
// runtime via Config.Kind and stay otherwise backend-agnostic.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownKind is returned by New for a kind no backend registered.
var ErrUnknownKind = errors.New("unknown storage kind")

// Config selects and parameterizes a backend.
type Config struct {
	// Kind selects the backend implementation: "postgres", "sqlite",
	// "mysql", or "mssql".
	Kind string

	// DSN is the backend-specific connection string.
	DSN string

	// Retry bounds connection acquisition. The zero value means the
	// default policy (5 attempts, 3s apart).
	Retry RetryPolicy
}

// InsertResult tallies one InsertRows call.
type InsertResult struct {
	Inserted int64
	Failed   int64
}

// Repository is the persistence contract. Implementations open a fresh,
// exclusively-owned connection per operation (acquired under the retry
// policy) and release it before returning; no connection survives across
// calls.
type Repository interface {
	// InsertRows inserts rows one at a time into table. A failing row is
	// logged, counted in the result, and skipped; the surviving rows
	// commit together at the end. Values align with columns; sequence
	// values arrive as []string.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (InsertResult, error)

	// Count returns SELECT COUNT(*) for table.
	Count(ctx context.Context, table string) (int64, error)

	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, stmt string) error

	// Close releases anything held by the repository itself. Connections
	// are per-operation, so for most backends this is a no-op.
	Close()
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a backend kind. It is
// called from backend packages' init functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New builds a Repository for cfg.Kind. Kinds become available by
// importing their backend package, usually via a blank import of
// storage/all.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (is the backend imported?)", ErrUnknownKind, cfg.Kind)
	}
	return fn(ctx, cfg)
}
