package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper creates the destination tables for one backend kind if
// they do not exist yet. dataTable holds cleansed rows; rejectTable holds
// rejected rows and carries the extra reject_reason column.
type DDLBootstrapper func(ctx context.Context, repo Repository, dataTable, rejectTable string) error

var (
	ddlMu            sync.RWMutex
	ddlBootstrappers = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the DDL bootstrapper for a kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlBootstrappers[kind] = fn
}

// EnsureTables creates the destination tables through the bootstrapper
// registered for kind. Statements are idempotent, so calling this against
// an already-provisioned database is safe.
func EnsureTables(ctx context.Context, kind string, repo Repository, dataTable, rejectTable string) error {
	ddlMu.RLock()
	fn, ok := ddlBootstrappers[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage kind %q", kind)
	}
	return fn(ctx, repo, dataTable, rejectTable)
}
