package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bintangfajarr/csv-data-cleansing/internal/config"
	"github.com/bintangfajarr/csv-data-cleansing/internal/pipeline"

	_ "modernc.org/sqlite"
)

// makeTempCSV creates a CSV with the given header and rows.
func makeTempCSV(tb testing.TB, dir string, header []string, rows [][]string) {
	tb.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(dir, "data.csv"), []byte(b.String()), 0o644); err != nil {
		tb.Fatalf("write csv: %v", err)
	}
}

// openSQL opens a raw *sql.DB on the same file so we can verify inserted
// rows independently of the storage layer.
func openSQL(tb testing.TB, path string) *sql.DB {
	tb.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("sql open: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	return db
}

// buildConfig wires a sqlite-backed run over temp directories.
func buildConfig(tb testing.TB, srcDir, outDir, dbPath string) *config.Config {
	tb.Helper()
	env := map[string]string{
		"SOURCE_PATH": srcDir,
		"SOURCE_FILE": "data.csv",
		"TARGET_PATH": outDir,
		"DB_DRIVER":   "sqlite",
		"DB_NAME":     dbPath,
	}
	fs := flag.NewFlagSet("e2e", flag.ContinueOnError)
	return config.LoadFrom(fs, func(k string) string { return env[k] })
}

/*
End-to-end test: full run against a real SQLite file with table
auto-creation. Verifies the duplicate split lands in the right tables and
that both export artifacts appear on disk.
*/
func TestRun_E2E_SQLite_AutoCreate(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "source")
	outDir := filepath.Join(dir, "target")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dbPath := filepath.Join(dir, "e2e.sqlite")

	header := []string{"ids", "names", "dates", "monthly_listeners", "genres"}
	makeTempCSV(t, srcDir, header, [][]string{
		{"1", "alpha", "13/04/2024", "10", `"['rock', 'pop']"`},
		{"2", "beta", "2024-04-13", "20", `"[]"`},
		{"1", "alpha dup", "2024-04-14", "11", `"['jazz']"`},
		{"3", "gamma", "14/04/2024", "30", `"['folk']"`},
	})

	cfg := buildConfig(t, srcDir, outDir, dbPath)
	sum, err := pipeline.New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.CleanRows != 3 || sum.DuplicateRows != 1 {
		t.Fatalf("clean/dup = %d/%d, want 3/1", sum.CleanRows, sum.DuplicateRows)
	}
	if sum.DataCount != 3 || sum.RejectCount != 1 {
		t.Fatalf("verified counts = %d/%d, want 3/1", sum.DataCount, sum.RejectCount)
	}

	// Verify DB contents via direct SQL.
	db := openSQL(t, dbPath)
	var got int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "data"`).Scan(&got); err != nil {
		t.Fatalf("verify data count: %v", err)
	}
	if got != 3 {
		t.Fatalf("data rows: got %d want 3", got)
	}
	var name, date, reason string
	err = db.QueryRow(`SELECT "names", "dates", "reject_reason" FROM "data_reject"`).Scan(&name, &date, &reason)
	if err != nil {
		t.Fatalf("verify reject row: %v", err)
	}
	if name != "ALPHA DUP" || date != "2024-04-14" {
		t.Fatalf("reject row = (%q, %q), want transformed values", name, date)
	}
	if reason != "Duplicate ID" {
		t.Fatalf("reject_reason = %q, want Duplicate ID", reason)
	}

	// Both artifacts exist.
	if _, err := os.Stat(sum.JSONFile); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if _, err := os.Stat(sum.CSVFile); err != nil {
		t.Fatalf("csv artifact: %v", err)
	}
	// The CSV keeps the duplicate's raw cells.
	raw, err := os.ReadFile(sum.CSVFile)
	if err != nil {
		t.Fatalf("read csv artifact: %v", err)
	}
	if !strings.Contains(string(raw), "alpha dup") {
		t.Fatalf("csv artifact missing raw duplicate row:\n%s", raw)
	}
}

/*
End-to-end test: a source with no duplicate ids loads everything into the
data table, leaves the reject table empty, and skips the CSV artifact.
*/
func TestRun_E2E_NoDuplicates(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "source")
	outDir := filepath.Join(dir, "target")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dbPath := filepath.Join(dir, "nodup.sqlite")

	makeTempCSV(t, srcDir, []string{"ids", "names"}, [][]string{
		{"1", "a"},
		{"2", "b"},
	})

	cfg := buildConfig(t, srcDir, outDir, dbPath)
	sum, err := pipeline.New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.DataCount != 2 || sum.RejectCount != 0 {
		t.Fatalf("verified counts = %d/%d, want 2/0", sum.DataCount, sum.RejectCount)
	}
	if sum.CSVWritten {
		t.Fatalf("CSVWritten = true, want false with no duplicates")
	}
	if _, err := os.Stat(sum.CSVFile); err == nil {
		t.Fatalf("csv artifact written despite no duplicates")
	}
	if _, err := os.Stat(sum.JSONFile); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
}
