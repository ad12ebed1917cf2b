package sqlite

import (
	"fmt"
	"strings"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

// columnTypes maps schema columns to SQLite types. Sequence columns land
// in TEXT as JSON; anything unlisted defaults to TEXT.
var columnTypes = map[string]string{
	records.ColMonthlyListeners: "INTEGER",
	records.ColPopularity:       "INTEGER",
	records.ColFollowers:        "INTEGER",
	records.ColNumReleases:      "INTEGER",
	records.ColNumTracks:        "INTEGER",
}

// createTableSQL renders idempotent DDL for a destination table.
// withReason adds the reject_reason column carried by the reject table.
func createTableSQL(table string, withReason bool) string {
	cols := make([]string, 0, len(records.Schema)+1)
	for _, c := range records.Schema {
		typ := columnTypes[c]
		if typ == "" {
			typ = "TEXT"
		}
		cols = append(cols, liteIdent(c)+" "+typ)
	}
	if withReason {
		cols = append(cols, liteIdent(records.RejectReasonColumn)+" TEXT")
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		liteFQN(table),
		strings.Join(cols, ",\n    "),
	)
}
