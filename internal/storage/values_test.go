package storage

import (
	"reflect"
	"testing"
)

func TestFlattenSequences(t *testing.T) {
	row := []any{"abc123", int64(42), []string{"rock", "pop"}, []string{}, []string(nil), "plain"}
	got := FlattenSequences(row)
	want := []any{"abc123", int64(42), `["rock","pop"]`, "[]", "[]", "plain"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FlattenSequences: got %#v want %#v", got, want)
	}
	// Input must stay untouched.
	if _, ok := row[2].([]string); !ok {
		t.Fatalf("input row mutated: %#v", row)
	}
}
