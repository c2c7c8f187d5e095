package database

import (
	"path/filepath"
	"testing"
)

// openTestDB connects the package-level DB to a throwaway SQLite file.
func openTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	if err := ConnectSQLite(path); err != nil {
		t.Fatalf("ConnectSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
}
