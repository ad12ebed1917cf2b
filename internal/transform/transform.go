package transform

import (
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bintangfajarr/csv-data-cleansing/internal/fields"
	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

// Warning reports a cell that fell back to its raw value during
// normalization. Warnings are diagnostics; the row still transforms.
type Warning struct {
	Line  int
	Field string
	Value string
}

// Apply normalizes every row of batch into a typed record: dates to
// YYYY-MM-DD, names upper-cased, numeric columns coerced, array columns
// split, release sentinels cleared. Rows transform independently, fanned
// out over workers goroutines (0 means NumCPU); output order matches
// input order regardless of worker count.
//
// A row can never abort the batch: every parser has a fallback value, and
// per-row diagnostics come back as Warnings ordered by input position.
// Columns absent from the batch hold empty cells and simply map to their
// zero values.
func Apply(batch records.Batch, workers int) ([]records.Artist, []Warning) {
	out := make([]records.Artist, len(batch.Rows))
	warns := make([][]Warning, len(batch.Rows))

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(batch.Rows) {
		workers = len(batch.Rows)
	}

	var g errgroup.Group
	idx := make(chan int)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range idx {
				out[i], warns[i] = transformOne(batch.Rows[i])
			}
			return nil
		})
	}
	for i := range batch.Rows {
		idx <- i
	}
	close(idx)
	// Workers only write disjoint indexes and never fail; Wait is the
	// happens-before edge for reading out and warns.
	_ = g.Wait()

	var flat []Warning
	for _, ws := range warns {
		flat = append(flat, ws...)
	}
	return out, flat
}

func transformOne(row records.Raw) (records.Artist, []Warning) {
	var warns []Warning

	date, ok := fields.ParseDate(row.Dates)
	if !ok {
		warns = append(warns, Warning{Line: row.Line, Field: records.ColDates, Value: row.Dates})
	}

	a := records.Artist{
		Dates:            date,
		IDs:              row.IDs,
		Names:            strings.ToUpper(row.Names),
		MonthlyListeners: fields.CoerceInt(row.MonthlyListeners),
		Popularity:       fields.CoerceInt(row.Popularity),
		Followers:        fields.CoerceInt(row.Followers),
		Genres:           fields.ParseArray(row.Genres),
		FirstRelease:     fields.CleanRelease(row.FirstRelease),
		LastRelease:      fields.CleanRelease(row.LastRelease),
		NumReleases:      fields.CoerceInt(row.NumReleases),
		NumTracks:        fields.CoerceInt(row.NumTracks),
		PlaylistsFound:   row.PlaylistsFound,
		FeatTrackIDs:     fields.ParseArray(row.FeatTrackIDs),
	}
	return a, warns
}
