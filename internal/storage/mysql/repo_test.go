package mysql

import (
	"context"
	"strings"
	"testing"
)

func TestNewRepositoryValidatesDSN(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), Config{DSN: "@@not-a-dsn"}); err == nil {
		t.Fatalf("expected error for malformed DSN")
	}
	repo, closeFn, err := NewRepository(context.Background(), Config{
		DSN: "postgres:password@tcp(localhost:3306)/test_db",
	})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer closeFn()
	if repo == nil {
		t.Fatalf("NewRepository returned nil repo")
	}
}

func TestInsertSQL(t *testing.T) {
	got := insertSQL("data", []string{"ids", "genres"})
	want := "INSERT INTO `data` (`ids`, `genres`) VALUES (?, ?)"
	if got != want {
		t.Fatalf("insertSQL: got %q want %q", got, want)
	}
}

func TestIdentQuoting(t *testing.T) {
	if got := myIdent("we`ird"); got != "`we``ird`" {
		t.Fatalf("myIdent: got %q", got)
	}
	if got := myFQN("test_db.data_reject"); got != "`test_db`.`data_reject`" {
		t.Fatalf("myFQN: got %q", got)
	}
}

func TestCreateTableSQLShape(t *testing.T) {
	data := createTableSQL("data", false)
	if !strings.HasPrefix(data, "CREATE TABLE IF NOT EXISTS `data`") {
		t.Fatalf("data DDL prefix: got %q", data)
	}
	for _, want := range []string{"`ids` TEXT", "`popularity` BIGINT", "`feat_track_ids` TEXT"} {
		if !strings.Contains(data, want) {
			t.Fatalf("data DDL missing %q:\n%s", want, data)
		}
	}
	if strings.Contains(data, "reject_reason") {
		t.Fatalf("data DDL should not carry reject_reason:\n%s", data)
	}
	if !strings.Contains(createTableSQL("data_reject", true), "`reject_reason` TEXT") {
		t.Fatalf("reject DDL missing reject_reason")
	}
}
