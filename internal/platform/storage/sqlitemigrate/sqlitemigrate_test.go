package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyMigrationsOrderAndIdempotence(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"0002_second.sql": {Data: []byte("ALTER TABLE things ADD COLUMN note TEXT;")},
		"0001_first.sql":  {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY);")},
	}

	if err := ApplyMigrations(db, migrations, "."); err != nil {
		t.Fatalf("apply: %v", err)
	}
	// Rerun must be a no-op.
	if err := ApplyMigrations(db, migrations, "."); err != nil {
		t.Fatalf("reapply: %v", err)
	}

	if _, err := db.Exec("INSERT INTO things (id, note) VALUES (1, 'x')"); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}

	var applied int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", applied)
	}
}

func TestApplyMigrationsNilDB(t *testing.T) {
	if err := ApplyMigrations(nil, fstest.MapFS{}, "."); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestApplyMigrationsBadSQL(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"0001_bad.sql": {Data: []byte("NOT VALID SQL")},
	}
	if err := ApplyMigrations(db, migrations, "."); err == nil {
		t.Fatal("expected error for invalid migration")
	}
}
