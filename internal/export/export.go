// Package export writes the run outputs: the cleansed data as a JSON
// document and the rejected duplicates as CSV. Both writers create the
// target directory on demand and surface write failures to the caller;
// a failed export fails the run.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

// Document is the JSON export envelope. Field order inside Data entries
// follows the records.Artist declaration order.
type Document struct {
	RowCount int              `json:"row_count"`
	Data     []records.Artist `json:"data"`
}

// WriteJSON writes the transformed records to path as an indented
// Document. An empty input still produces a document with row_count 0 and
// an empty data array, never null.
func WriteJSON(path string, artists []records.Artist) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}
	doc := Document{RowCount: len(artists), Data: artists}
	if doc.Data == nil {
		doc.Data = []records.Artist{}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes the batch to path with its original header spellings
// and raw cell values. Used for the duplicate rows before transformation,
// so the file mirrors the source exactly.
func WriteCSV(path string, batch records.Batch) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(batch.Header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(batch.Columns))
	for _, row := range batch.Rows {
		for i, col := range batch.Columns {
			rec[i] = row.Cell(col)
		}
		if err := w.Write(rec); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row (line %d): %w", row.Line, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
