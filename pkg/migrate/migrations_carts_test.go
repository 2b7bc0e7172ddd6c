package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markhallen/storefront/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestCartsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_carts_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS carts",
		"CREATE TABLE IF NOT EXISTS cart_lines",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_lines_cart_item",
		"quantity INTEGER NOT NULL CHECK (quantity > 0)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestItemsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_items_table.sql")

	checks := []string{
		"CREATE TYPE item_category AS ENUM",
		"CREATE TABLE IF NOT EXISTS items",
		"price NUMERIC(12, 2) NOT NULL CHECK (price >= 0)",
		"stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_items_created_at_id",
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
		t.Fatalf("no migration matching %q found", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
