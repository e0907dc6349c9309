package database

import (
	"path/filepath"
	"testing"

	"familyhub/internal/config"
)

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single placeholder",
			query: "SELECT * FROM users WHERE id = ?",
			want:  "SELECT * FROM users WHERE id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO users (a, b, c) VALUES (?, ?, ?)",
			want:  "INSERT INTO users (a, b, c) VALUES ($1, $2, $3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("rewritePlaceholdersToNumbered(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestDialectProperties(t *testing.T) {
	sqlite := NewSQLiteDialect()
	if !sqlite.SupportsLastInsertId() {
		t.Error("sqlite should support LastInsertId")
	}
	if sqlite.MigrationsSubdir() != "sqlite" {
		t.Errorf("sqlite migrations subdir = %q", sqlite.MigrationsSubdir())
	}
	if got := sqlite.RewriteQuery("WHERE id = ?"); got != "WHERE id = ?" {
		t.Errorf("sqlite should not rewrite placeholders, got %q", got)
	}

	postgres := NewPostgresDialect()
	if postgres.SupportsLastInsertId() {
		t.Error("postgres should not support LastInsertId")
	}
	if got := postgres.RewriteQuery("WHERE id = ? AND name = ?"); got != "WHERE id = $1 AND name = $2" {
		t.Errorf("postgres rewrite = %q", got)
	}

	mysql := NewMySQLDialect()
	if !mysql.SupportsLastInsertId() {
		t.Error("mysql should support LastInsertId")
	}
	if got := mysql.RewriteQuery("WHERE id = ?"); got != "WHERE id = ?" {
		t.Errorf("mysql should not rewrite placeholders, got %q", got)
	}
}

func newTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.Config{
		DatabaseType: "sqlite",
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return db
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := newTestDB(t)

	// Running the same migrations again must be a no-op.
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("query migrations table: %v", err)
	}
	if count == 0 {
		t.Error("no migrations recorded")
	}
}

func TestExecReturningID(t *testing.T) {
	db := newTestDB(t)

	id, err := db.ExecReturningID(
		"INSERT INTO users (username, email, password_hash, display_name) VALUES (?, ?, ?, ?)",
		"alice", "alice@example.com", "hash", "Alice",
	)
	if err != nil {
		t.Fatalf("ExecReturningID: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}

	id2, err := db.ExecReturningID(
		"INSERT INTO users (username, email, password_hash, display_name) VALUES (?, ?, ?, ?)",
		"bob", "bob@example.com", "hash", "Bob",
	)
	if err != nil {
		t.Fatalf("ExecReturningID: %v", err)
	}
	if id2 <= id {
		t.Errorf("expected increasing ids, got %d then %d", id, id2)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := newTestDB(t)

	insert := "INSERT INTO users (username, email, password_hash, display_name) VALUES (?, ?, ?, ?)"
	if _, err := db.Exec(insert, "carol", "carol@example.com", "hash", "Carol"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err := db.Exec(insert, "carol", "other@example.com", "hash", "Carol")
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}

	if IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true")
	}
}
