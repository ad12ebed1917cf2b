// Package datasource abstracts where the source export comes from. The
// pipeline only needs a readable stream; the concrete location (local
// directory today) stays behind this interface.
package datasource

import (
	"context"
	"io"
)

// Source supplies the raw CSV bytes for one run.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
