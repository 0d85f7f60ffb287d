package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestSQLite opens a fresh write/read pool pair over a database file in
// t.TempDir() and migrates it to the full deal-pipeline schema. Cleanup is
// registered on t. Tests that don't care about the pool split can do all
// their work through writeDB.
func OpenTestSQLite(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dealdesk_test.sqlite")

	writeDB, readDB, err := OpenSQLitePair(path, 4)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return writeDB, readDB
}
