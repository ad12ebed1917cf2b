// Package all wires the built-in storage backends into the storage
// factory.
//
// This package exists purely for side effects: importing it (even as a
// blank import) runs the init functions of each concrete backend, which
// register their factories and DDL bootstrappers with the storage package.
//
// Importing this package makes the following kinds available at runtime:
//
//   - "postgres" (internal/storage/postgres)
//   - "sqlite"   (internal/storage/sqlite)
//   - "mysql"    (internal/storage/mysql)
//   - "mssql"    (internal/storage/mssql)
//
// Typical usage (in cmd/cleanse/main.go or a similar wiring layer):
//
//	import (
//	    _ "github.com/bintangfajarr/csv-data-cleansing/internal/storage/all" // enable all backends
//
//	    "github.com/bintangfajarr/csv-data-cleansing/internal/storage"
//	)
//
//	repo, err := storage.New(ctx, storage.Config{Kind: cfg.DBDriver, DSN: dsn, Retry: retry})
//	if err != nil {
//	    // handle error
//	}
//	defer repo.Close()
//
// A binary that should support only one backend can import that backend
// package directly instead of this one.
package all

import (
	_ "github.com/bintangfajarr/csv-data-cleansing/internal/storage/mssql"
	_ "github.com/bintangfajarr/csv-data-cleansing/internal/storage/mysql"
	_ "github.com/bintangfajarr/csv-data-cleansing/internal/storage/postgres"
	_ "github.com/bintangfajarr/csv-data-cleansing/internal/storage/sqlite"
)
