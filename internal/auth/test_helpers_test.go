package auth

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const testSigningSecret = "test-secret-0123456789abcdef0123456789abcdef"

// testDB creates a temporary SQLite database with the account schema
// applied. The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "auth-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			password_hash TEXT NOT NULL UNIQUE,
			refresh_token TEXT NOT NULL,
			disabled INTEGER NOT NULL DEFAULT 0
		) STRICT;

		CREATE INDEX idx_users_refresh_token ON users(refresh_token);
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	return db
}

// testService creates an auth service over a fresh test database with a
// short but comfortably unexpired token TTL.
func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewUserDirectory(testDB(t)), NewTokenCodec(testSigningSecret, 15*time.Minute))
}

// registerTestUser registers an account through the full flow and fails the
// test on error.
func registerTestUser(t *testing.T, svc *Service, username, password, email, fullName string) *NewUser {
	t.Helper()

	nu, err := svc.Register(context.Background(), username, password, email, fullName)
	if err != nil {
		t.Fatalf("registering test user %s: %v", username, err)
	}
	return nu
}
