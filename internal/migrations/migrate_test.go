package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindLatestMigrationVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000001_init.up.sql", "000001_init.down.sql", "000012_views.up.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000099_dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := findLatestMigrationVersion(dir); got != 12 {
		t.Errorf("latest = %d, want 12", got)
	}
	if got := findLatestMigrationVersion(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("missing dir latest = %d, want 0", got)
	}
}

func TestShippedMigrationsPresent(t *testing.T) {
	if got := findLatestMigrationVersion(filepath.Join("..", "..", "migrations")); got < 1 {
		t.Errorf("no migrations found in the repository migrations dir")
	}
}

func TestRunMigrationsNeedsURL(t *testing.T) {
	if err := RunMigrations("", "", nil); err == nil {
		t.Errorf("empty URL should fail")
	}
}
