package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/festivawin/festiva-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestDepositItemsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_deposit_items.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS deposit_items",
		"FOREIGN KEY (vendor_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (qty_available >= 0)",
		"CHECK (qty_sold >= 0)",
		"DROP TABLE IF EXISTS deposit_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestVendorLedgersMigrationHasVersionColumn(t *testing.T) {
	content := readMigration(t, "*_create_vendor_ledgers.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS vendor_ledgers",
		"version bigint NOT NULL DEFAULT 0",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_vendor_ledgers_vendor_id",
		"DROP TABLE IF EXISTS vendor_ledgers",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
