// Package csv reads the source export into a records.Batch. The whole file
// is materialized at once; the job processes a single moderate batch per
// run, so there is no streaming path here.
//
// Header cells are canonicalized before matching against the known schema
// (trim, lower-case, accents stripped, separators collapsed to
// underscores), so "Monthly Listeners", "monthly-listeners" and
// "monthly_listeners" all land on the same column. Cells keep their raw
// values; nothing is trimmed or rewritten inside rows.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// Options configures the reader. Zero values select the defaults.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune
}

// Parser turns CSV input into a records.Batch. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	if opt.Comma == 0 {
		opt.Comma = ','
	}
	return &Parser{opt: opt}
}

// Parse reads all of r and returns the batch. The first row must be a
// header containing the "ids" column; a missing header or any malformed
// row is an error, since a damaged source file must fail the run rather
// than load partial data.
//
// Header columns outside the known schema are ignored with a log notice.
// A canonical column appearing twice keeps its first occurrence.
func (p *Parser) Parse(r io.Reader) (records.Batch, error) {
	cr := csv.NewReader(r)
	cr.Comma = p.opt.Comma

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return records.Batch{}, fmt.Errorf("read header: empty input")
		}
		return records.Batch{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var batch records.Batch
	// keep[i] holds the canonical name for source column i, "" when the
	// column is ignored.
	keep := make([]string, len(header))
	seen := map[string]bool{}
	for i, cell := range header {
		canon := canonicalFieldName(cell)
		switch {
		case !records.Known(canon):
			log.Printf("csv: ignoring unrecognized column %q", cell)
		case seen[canon]:
			log.Printf("csv: ignoring duplicate column %q", cell)
		default:
			keep[i] = canon
			seen[canon] = true
			batch.Columns = append(batch.Columns, canon)
			batch.Header = append(batch.Header, cell)
		}
	}
	if !seen[records.ColIDs] {
		return records.Batch{}, fmt.Errorf("source is missing required column %q", records.ColIDs)
	}

	line := 1 // header line
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records.Batch{}, fmt.Errorf("read row: %w", err)
		}
		line++
		row := records.Raw{Line: line}
		for i, canon := range keep {
			if canon == "" || i >= len(rec) {
				continue
			}
			row.SetCell(canon, rec[i])
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch, nil
}

// canonicalFieldName lower-cases s, strips accents, keeps [a-z0-9], and
// collapses runs of separators into single underscores. Unmappable header
// cells come back empty and are treated as unknown columns.
func canonicalFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose, remove nonspacing marks (accents), recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevUnderscore = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	return strings.Trim(b.String(), "_")
}
