package fields

import (
	"reflect"
	"testing"
)

func TestParseDateFixedFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"13/04/2024", "2024-04-13"}, // day first wins over month first
		{"04/13/2024", "2024-04-13"}, // impossible as day-first, month-first catches it
		{"2024-04-13", "2024-04-13"}, // ISO round-trips
		{"13-04-2024", "2024-04-13"},
		{"2024/04/13", "2024-04-13"},
		{"13.04.2024", "2024-04-13"},
		{"20240413", "2024-04-13"},
		{"3/4/2024", "2024-04-03"}, // non-padded day first
		{"  2024-04-13  ", "2024-04-13"},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("ParseDate(%q): got (%q, %v) want (%q, true)", tc.in, got, ok, tc.want)
		}
	}
}

func TestParseDateAmbiguityPreference(t *testing.T) {
	// 04/05 is valid both ways; day-first must win.
	got, ok := ParseDate("04/05/2024")
	if !ok || got != "2024-05-04" {
		t.Fatalf("ParseDate(04/05/2024): got (%q, %v) want (2024-05-04, true)", got, ok)
	}
}

func TestParseDateFallbacks(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"13/4/24", "2024-04-13"},
		{"3/4/20", "2020-04-03"}, // day-first preference holds in the fallback list too
		{"13 April 2024", "2024-04-13"},
		{"13 Apr 2024", "2024-04-13"},
		{"April 13, 2024", "2024-04-13"},
		{"13-Apr-2024", "2024-04-13"},
		{"2024-04-13 08:30:00", "2024-04-13"},
		{"2024-04-13T08:30:00Z", "2024-04-13"},
		{"2024.04.13", "2024-04-13"},
		{"April 2024", "2024-04-01"},
		{"2024", "2024-01-01"},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("ParseDate(%q): got (%q, %v) want (%q, true)", tc.in, got, ok, tc.want)
		}
	}
}

func TestParseDateEmptyAndGarbage(t *testing.T) {
	if got, ok := ParseDate(""); got != "" || !ok {
		t.Fatalf("ParseDate(empty): got (%q, %v) want (\"\", true)", got, ok)
	}
	// Unparseable input comes back trimmed but otherwise untouched, not ok.
	if got, ok := ParseDate("not-a-date"); got != "not-a-date" || ok {
		t.Fatalf("ParseDate(not-a-date): got (%q, %v) want (not-a-date, false)", got, ok)
	}
	if got, ok := ParseDate("  mystery  "); got != "mystery" || ok {
		t.Fatalf("ParseDate(padded garbage): got (%q, %v) want (mystery, false)", got, ok)
	}
	// Out-of-range components never match any layout.
	if got, ok := ParseDate("32/13/2024"); got != "32/13/2024" || ok {
		t.Fatalf("ParseDate(32/13/2024): got (%q, %v) want unchanged, false", got, ok)
	}
}

func TestParseDateIdempotent(t *testing.T) {
	first, ok := ParseDate("13/04/2024")
	if !ok {
		t.Fatalf("first parse failed")
	}
	second, ok := ParseDate(first)
	if !ok || second != first {
		t.Fatalf("re-parse of %q: got (%q, %v) want (%q, true)", first, second, ok, first)
	}
}

func TestParseArray(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`[a, 'b', "c"]`, []string{"a", "b", "c"}},
		{"", []string{}},
		{"[]", []string{}},
		{"[ ]", []string{}},
		{"rock, pop", []string{"rock", "pop"}}, // brackets optional
		{"[rock]", []string{"rock"}},
		{"[[nested]]", []string{"nested"}}, // character strip, not bracket matching
		{"['solo']", []string{"solo"}},
		{"[a,,b, ,c]", []string{"a", "b", "c"}}, // empty elements dropped
		{`"quoted, mid"dle`, []string{"quoted", "middle"}},
	}
	for _, tc := range cases {
		got := ParseArray(tc.in)
		if got == nil {
			t.Fatalf("ParseArray(%q) returned nil; want non-nil slice", tc.in)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseArray(%q): got %#v want %#v", tc.in, got, tc.want)
		}
	}
}

func TestCoerceInt(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"42", 42},
		{"abc", 0},
		{"", 0},
		{"  42  ", 42},
		{"+7", 7},
		{"-5", -5},
		{"3.7", 3},
		{"-3.7", -3}, // truncation toward zero
		{"1e3", 1000},
		{"007", 7},
		{"nan", 0},
		{"Inf", 0},
		{"1,000", 0}, // thousands separators do not parse
	}
	for _, tc := range cases {
		if got := CoerceInt(tc.in); got != tc.want {
			t.Fatalf("CoerceInt(%q): got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestCleanRelease(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"nan", ""},
		{"None", ""},
		{"", ""},
		{"2003", "2003"},
		{"nan ", "nan "}, // exact match only
		{"NaN", "NaN"},
	}
	for _, tc := range cases {
		if got := CleanRelease(tc.in); got != tc.want {
			t.Fatalf("CleanRelease(%q): got %q want %q", tc.in, got, tc.want)
		}
	}
}
