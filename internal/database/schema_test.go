package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsDir = "../../migrations"

func readMigration(t *testing.T, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		contentStr := readMigration(t, file.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"users":         "00001_create_users_table.sql",
		"categories":    "00002_create_categories_table.sql",
		"products":      "00003_create_products_table.sql",
		"shopping_cart": "00004_create_shopping_cart_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		contentStr := readMigration(t, migrationFile)

		if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		if !strings.Contains(contentStr, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestShoppingCartTableIsKeyedByUserAndProduct(t *testing.T) {
	contentStr := readMigration(t, "00004_create_shopping_cart_table.sql")

	// The atomic upsert relies on this key for ON CONFLICT.
	if !strings.Contains(contentStr, "PRIMARY KEY (user_id, product_id)") {
		t.Error("shopping_cart missing primary key on (user_id, product_id)")
	}

	if !strings.Contains(contentStr, "CHECK (quantity > 0)") {
		t.Error("shopping_cart missing positive quantity check")
	}

	for _, fk := range []string{"REFERENCES users(user_id)", "REFERENCES products(product_id)"} {
		if !strings.Contains(contentStr, fk) {
			t.Errorf("shopping_cart missing foreign key %s", fk)
		}
	}
}

func TestProductsTableHasRequiredColumns(t *testing.T) {
	contentStr := readMigration(t, "00003_create_products_table.sql")

	requiredColumns := []string{
		"product_id SERIAL PRIMARY KEY",
		"name VARCHAR",
		"price DECIMAL",
		"category_id INTEGER",
		"description TEXT",
		"image_url VARCHAR",
		"stock INTEGER",
		"featured BOOLEAN",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Products table missing required column definition: %s", column)
		}
	}
}
