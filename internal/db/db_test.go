package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/swelljoe/wthr-widget/internal/recent"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for testing
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every pooled connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	// Initialize schema
	if err := initSchema(db); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	return &DB{DB: db, driver: "sqlite3"}
}

func TestGetSetRemove(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	if _, ok, err := testDB.Get("s1", "k"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := testDB.Set("s1", "k", "one"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := testDB.Set("s1", "k", "two"); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}

	value, ok, err := testDB.Get("s1", "k")
	if err != nil || !ok || value != "two" {
		t.Errorf("expected two, got %q ok=%v err=%v", value, ok, err)
	}

	if _, ok, _ := testDB.Get("s2", "k"); ok {
		t.Error("expected scopes to be isolated")
	}

	if err := testDB.Remove("s1", "k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := testDB.Remove("s1", "k"); err != nil {
		t.Errorf("Remove of a missing key should not fail: %v", err)
	}
	if _, ok, _ := testDB.Get("s1", "k"); ok {
		t.Error("expected key to be removed")
	}
}

func TestRecentListOverDB(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	l := recent.New(testDB, "browser-1", 0)
	for _, name := range []string{"Paris", "paris", "London"} {
		if _, err := l.Push(name); err != nil {
			t.Fatalf("Push(%q) failed: %v", name, err)
		}
	}

	raw, ok, err := testDB.Get("browser-1", recent.Key)
	if err != nil || !ok {
		t.Fatalf("expected stored list, got ok=%v err=%v", ok, err)
	}
	if raw != `["London","paris"]` {
		t.Errorf("unexpected stored value %q", raw)
	}

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	names, err := l.Load()
	if err != nil || len(names) != 0 {
		t.Errorf("expected empty list, got %v err=%v", names, err)
	}
}

func TestPruneScopes(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	old := time.Now().Add(-48 * time.Hour).Unix()
	if _, err := testDB.Exec(`INSERT INTO kv (scope, key, value, updated_at) VALUES ('stale', 'a', '1', ?), ('stale', 'b', '2', ?)`, old, old); err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}
	if err := testDB.Set("fresh", "a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	n, err := testDB.PruneScopes(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneScopes failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned rows, got %d", n)
	}
	if _, ok, _ := testDB.Get("fresh", "a"); !ok {
		t.Error("fresh scope should survive pruning")
	}
}

func TestTouchKeepsScope(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	old := time.Now().Add(-48 * time.Hour).Unix()
	if _, err := testDB.Exec(`INSERT INTO kv (scope, key, value, updated_at) VALUES ('visited', ?, '["Oslo"]', ?), ('gone', ?, '["Rome"]', ?)`,
		recent.Key, old, recent.Key, old); err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}

	if err := testDB.Touch("visited"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if err := testDB.Touch("never-written"); err != nil {
		t.Fatalf("Touch of an empty scope failed: %v", err)
	}

	n, err := testDB.PruneScopes(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneScopes failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned row, got %d", n)
	}
	if _, ok, _ := testDB.Get("visited", recent.Key); !ok {
		t.Error("touched scope should survive pruning")
	}
	if _, ok, _ := testDB.Get("gone", recent.Key); ok {
		t.Error("untouched scope should be pruned")
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: "postgres"}
	got := pg.rebind("SELECT value FROM kv WHERE scope = ? AND key = ?")
	want := "SELECT value FROM kv WHERE scope = $1 AND key = $2"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	lite := &DB{driver: "sqlite3"}
	if q := "SELECT ?"; lite.rebind(q) != q {
		t.Errorf("sqlite queries should be unchanged")
	}
}

func TestOpen(t *testing.T) {
	// Test with a temporary database file
	tmpDir := t.TempDir()
	tmpFile := tmpDir + "/test_wthr.db"

	db, err := Open("", tmpFile)
	if err != nil {
		t.Fatalf("Failed to create new DB: %v", err)
	}
	defer db.Close()

	// Verify we can ping it
	if err := db.Ping(); err != nil {
		t.Errorf("Failed to ping DB: %v", err)
	}
	if err := db.Set("s", "k", "v"); err != nil {
		t.Errorf("Set on a fresh file failed: %v", err)
	}
}

func TestNilDB(t *testing.T) {
	var db *DB
	_, _, err := db.Get("s", "k")
	if err == nil {
		t.Fatal("Expected error for nil database, got nil")
	}
	expectedMsg := "database not initialized"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
	if err := db.Set("s", "k", "v"); err == nil {
		t.Error("Expected error for nil database on Set")
	}
}
