package migrate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/teafarmpro/teafarm-backend/pkg/migrate"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "001_short_version.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected error for malformed migration filename")
	}
}

func TestValidateDirRequiresDownSection(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "20250301090000_missing_down.sql")
	if err := os.WriteFile(name, []byte("-- +goose Up\nCREATE TABLE t (id INT);\n"), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected error for migration without a Down section")
	}
}
