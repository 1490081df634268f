package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestFarmersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_farmers.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS farmers",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_farmers_email ON farmers (email)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_farmers_phone ON farmers (phone)",
		"DROP TABLE IF EXISTS farmers",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEmployeesMigrationScopesPhoneToFarmer(t *testing.T) {
	content := readMigration(t, "*_create_employees.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS employees",
		"FOREIGN KEY (farmer_id) REFERENCES farmers(id) ON DELETE CASCADE",
		"FOREIGN KEY (job_type_id) REFERENCES labours(id)",
		"idx_employees_farmer_phone ON employees (farmer_id, phone)",
		"idx_employees_email ON employees (email) WHERE email IS NOT NULL",
		"DROP TABLE IF EXISTS employees",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestLaboursMigrationScopesTypeToFarmer(t *testing.T) {
	content := readMigration(t, "*_create_labours.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS labours",
		"CHECK (rate >= 0)",
		"idx_labours_farmer_type ON labours (farmer_id, type)",
		"DROP TABLE IF EXISTS labours",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
