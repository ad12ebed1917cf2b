package storage

import "encoding/json"

// FlattenSequences returns a copy of row with []string values rendered as
// JSON text. Backends without a native array type (sqlite, mysql, mssql)
// store sequence columns that way; Postgres keeps []string and gets text[].
// nil and empty sequences both come out as "[]".
func FlattenSequences(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		s, ok := v.([]string)
		if !ok {
			out[i] = v
			continue
		}
		if len(s) == 0 {
			out[i] = "[]"
			continue
		}
		b, _ := json.Marshal(s)
		out[i] = string(b)
	}
	return out
}
