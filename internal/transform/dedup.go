// Package transform implements the two batch stages between reading and
// persistence: duplicate partitioning and field normalization.
package transform

import (
	"github.com/zeebo/xxh3"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

// Partition splits batch by first occurrence of the key column's value:
// the first row carrying each value goes to clean, every later carrier
// goes to dup. Both partitions keep input order and share the batch's
// column layout; together they reconstruct the input exactly. A missing
// or empty key cell is a value like any other, so the second empty-keyed
// row is a duplicate of the first.
func Partition(batch records.Batch, key string) (clean, dup records.Batch) {
	clean = records.Batch{Columns: batch.Columns, Header: batch.Header}
	dup = records.Batch{Columns: batch.Columns, Header: batch.Header}

	// Seen-set keyed by xxh3 of the key cell. Buckets hold the distinct
	// cell values behind one hash, so a hash collision cannot misfile a
	// unique row as a duplicate.
	seen := make(map[uint64][]string, len(batch.Rows))
	for _, row := range batch.Rows {
		k := row.Cell(key)
		h := xxh3.HashString(k)
		bucket := seen[h]
		dupe := false
		for _, prev := range bucket {
			if prev == k {
				dupe = true
				break
			}
		}
		if dupe {
			dup.Rows = append(dup.Rows, row)
			continue
		}
		seen[h] = append(bucket, k)
		clean.Rows = append(clean.Rows, row)
	}
	return clean, dup
}
