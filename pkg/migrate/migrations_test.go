package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopkeeper-dev/storefront-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestCartItemsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_items.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no cart_items migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_items",
		"FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (quantity >= 1)",
		"DROP TABLE IF EXISTS cart_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductOptionsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_product_options.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no product_options migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS product_options",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"NUMERIC(10,2)",
		"CHECK (quantity >= 0)",
		"DROP TABLE IF EXISTS product_options",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()

	full, err := migrate.CreateSQLMigration(dir, "Add Wishlist Table!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}

	base := filepath.Base(full)
	if !strings.HasSuffix(base, "_add_wishlist_table.sql") {
		t.Fatalf("unexpected filename %q", base)
	}

	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("ValidateDir on created migration: %v", err)
	}
}
