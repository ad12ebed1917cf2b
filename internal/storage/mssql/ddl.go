package mssql

import (
	"fmt"
	"strings"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

// columnTypes maps schema columns to SQL Server types. Sequence columns
// land in NVARCHAR(MAX) as JSON; anything unlisted defaults to
// NVARCHAR(MAX).
var columnTypes = map[string]string{
	records.ColMonthlyListeners: "BIGINT",
	records.ColPopularity:       "BIGINT",
	records.ColFollowers:        "BIGINT",
	records.ColNumReleases:      "BIGINT",
	records.ColNumTracks:        "BIGINT",
}

// createTableSQL renders idempotent DDL for a destination table. SQL
// Server has no CREATE TABLE IF NOT EXISTS, so the statement guards on
// OBJECT_ID. withReason adds the reject_reason column.
func createTableSQL(table string, withReason bool) string {
	cols := make([]string, 0, len(records.Schema)+1)
	for _, c := range records.Schema {
		typ := columnTypes[c]
		if typ == "" {
			typ = "NVARCHAR(MAX)"
		}
		cols = append(cols, msIdent(c)+" "+typ)
	}
	if withReason {
		cols = append(cols, msIdent(records.RejectReasonColumn)+" NVARCHAR(MAX)")
	}
	fqn := msFQN(table)
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nCREATE TABLE %s (\n    %s\n)",
		strings.ReplaceAll(fqn, "'", "''"),
		fqn,
		strings.Join(cols, ",\n    "),
	)
}
