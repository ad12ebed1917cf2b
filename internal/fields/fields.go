// Package fields holds the stateless cell-level parsers used by the
// transformer: multi-format date normalization, bracketed-list parsing, and
// best-effort integer coercion. Every function here is total; bad input
// maps to a defined fallback value, never an error.
package fields

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// isoDate is the output format for every successfully parsed date.
const isoDate = "2006-01-02"

// dateLayouts are tried in this exact order. Day-first comes before
// month-first, so "04/05/2024" reads as the 4th of May; callers wanting
// month-first must reorder. Non-padded layout tokens also accept padded
// input ("3/4/2024" and "03/04/2024" both match the first entry).
var dateLayouts = []string{
	"2/1/2006", // 13/04/2024 (day first)
	"1/2/2006", // 04/13/2024 (month first)
	"2006-1-2", // 2024-04-13 (ISO)
	"2-1-2006", // 13-04-2024
	"2006/1/2", // 2024/04/13
	"2.1.2006", // 13.04.2024
	"20060102", // 20240413 (compact)
}

// fallbackLayouts approximate a lenient general-purpose parse for inputs
// the fixed list misses. Day-first variants are listed before month-first
// ones to keep the same disambiguation preference.
var fallbackLayouts = []string{
	"2/1/06",              // 13/4/24 (two-digit year, day first)
	"1/2/06",              // 4/13/24 (two-digit year, month first)
	"2-1-06",              // 13-4-24
	"2006-1-2 15:04:05",   // 2024-04-13 08:30:00
	"2006-01-02T15:04:05", // 2024-04-13T08:30:00
	time.RFC3339,          // 2024-04-13T08:30:00Z
	"2 January 2006",      // 13 April 2024
	"2 Jan 2006",          // 13 Apr 2024
	"2-Jan-2006",          // 13-Apr-2024
	"January 2, 2006",     // April 13, 2024
	"Jan 2, 2006",         // Apr 13, 2024
	"2006.1.2",            // 2024.04.13
	"January 2006",        // April 2024 (first of month)
	"Jan 2006",            // Apr 2024
	"2006",                // 2024 (first of January)
}

// ParseDate normalizes a free-form date cell to YYYY-MM-DD.
//
// Empty input returns ("", true). Otherwise the value is trimmed and the
// fixed layouts are tried in priority order, then the fallback layouts.
// When nothing matches, the trimmed input is returned as-is with ok=false
// so the caller can surface a warning; unparseable dates are diagnostics,
// not errors.
func ParseDate(raw string) (val string, ok bool) {
	if raw == "" {
		return "", true
	}
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), true
		}
	}
	return s, false
}

// ParseArray splits a bracketed, quoted, comma-delimited cell into its
// elements: "[a, 'b', \"c\"]" becomes ["a","b","c"]. Brackets are stripped
// as a character trim on both ends (no balance requirement), all single
// and double quotes are deleted, and empty elements vanish. The result is
// always non-nil so encoders emit [] rather than null.
func ParseArray(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	s := strings.Trim(raw, "[]")
	s = strings.NewReplacer("'", "", `"`, "").Replace(s)
	if s == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CoerceInt converts a numeric cell to int64. Integer text parses
// directly; float text truncates toward zero; anything else (including
// empty, NaN, and infinities) coerces to 0. Negative values pass through.
func CoerceInt(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return int64(f)
	}
	return 0
}

// CleanRelease maps the stringified-missing sentinels "nan" and "None" to
// the empty string. Matching is exact; surrounding whitespace defeats it
// on purpose, mirroring how the sentinels are produced upstream.
func CleanRelease(raw string) string {
	if raw == "nan" || raw == "None" {
		return ""
	}
	return raw
}
