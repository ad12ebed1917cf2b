package postgres

import (
	"fmt"
	"strings"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

// columnTypes maps schema columns to Postgres types. Sequence columns use
// native text[], numeric columns bigint; anything unlisted defaults to text.
var columnTypes = map[string]string{
	records.ColMonthlyListeners: "bigint",
	records.ColPopularity:       "bigint",
	records.ColFollowers:        "bigint",
	records.ColNumReleases:      "bigint",
	records.ColNumTracks:        "bigint",
	records.ColGenres:           "text[]",
	records.ColFeatTrackIDs:     "text[]",
}

// createTableSQL renders idempotent DDL for a destination table.
// withReason adds the reject_reason column carried by the reject table.
func createTableSQL(table string, withReason bool) string {
	cols := make([]string, 0, len(records.Schema)+1)
	for _, c := range records.Schema {
		typ := columnTypes[c]
		if typ == "" {
			typ = "text"
		}
		cols = append(cols, pgIdent(c)+" "+typ)
	}
	if withReason {
		cols = append(cols, pgIdent(records.RejectReasonColumn)+" text")
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		pgFQN(table),
		strings.Join(cols, ",\n    "),
	)
}
