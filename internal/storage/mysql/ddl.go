package mysql

import (
	"fmt"
	"strings"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

// columnTypes maps schema columns to MySQL types. Sequence columns land
// in TEXT as JSON; anything unlisted defaults to TEXT.
var columnTypes = map[string]string{
	records.ColMonthlyListeners: "BIGINT",
	records.ColPopularity:       "BIGINT",
	records.ColFollowers:        "BIGINT",
	records.ColNumReleases:      "BIGINT",
	records.ColNumTracks:        "BIGINT",
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
		cols = append(cols, myIdent(c)+" "+typ)
	}
	if withReason {
		cols = append(cols, myIdent(records.RejectReasonColumn)+" TEXT")
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		myFQN(table),
		strings.Join(cols, ",\n    "),
	)
}
