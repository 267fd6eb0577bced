package database

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGetMigrationFilesSortsSQLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md", "010_c.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := getMigrationFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"001_a.sql", "002_b.sql", "010_c.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("migrations = %v, want %v", got, want)
	}
}

func TestGetMigrationFilesMissingDir(t *testing.T) {
	if _, err := getMigrationFiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
