package plant

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the users and plants
// schema applied and two seeded accounts.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "plant-test-*.db")
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

		CREATE TABLE plants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			common_name TEXT NOT NULL,
			scientific_name TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			cycle TEXT NOT NULL DEFAULT '',
			watering TEXT NOT NULL DEFAULT '',
			watering_period TEXT NOT NULL DEFAULT '',
			watering_benchmark_unit TEXT NOT NULL DEFAULT '',
			watering_benchmark_value TEXT NOT NULL DEFAULT '',
			sunlight TEXT NOT NULL DEFAULT '',
			pet_poison INTEGER NOT NULL DEFAULT 0,
			human_poison INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			owner_username TEXT NOT NULL,
			last_watering TEXT NOT NULL DEFAULT '',
			health_history TEXT NOT NULL DEFAULT '[]',
			FOREIGN KEY (owner_username) REFERENCES users(username) ON DELETE CASCADE
		) STRICT;

		CREATE INDEX idx_plants_owner ON plants(owner_username);

		INSERT INTO users (username, email, full_name, password_hash, refresh_token)
		VALUES ('johndoe', 'johndoe@gmail.com', 'John Doe', 'digest-john', 'rt-john'),
		       ('janedoe', 'janedoe@gmail.com', 'Jane Doe', 'digest-jane', 'rt-jane');
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	return db
}

// samplePlant returns a fully populated plant for the given owner.
func samplePlant(owner string) *Plant {
	return &Plant{
		CommonName:             "Monstera",
		ScientificName:         "Monstera deliciosa",
		Type:                   "Houseplant",
		Cycle:                  "Perennial",
		Watering:               "Average",
		WateringPeriod:         "morning",
		WateringBenchmarkUnit:  "days",
		WateringBenchmarkValue: "7",
		Sunlight:               "part shade",
		PetPoison:              true,
		HumanPoison:            false,
		Description:            "Large split leaves.",
		ImageURL:               "https://example.com/monstera.jpg",
		OwnerUsername:          owner,
		LastWatering:           "2026-08-20",
		HealthHistory:          []string{"healthy", "droopy"},
	}
}

// seedPlant inserts a plant directly through the repository.
func seedPlant(t *testing.T, repo *SQLiteRepository, owner string) *Plant {
	t.Helper()

	p := samplePlant(owner)
	if err := repo.Insert(context.Background(), p); err != nil {
		t.Fatalf("seeding plant for %s: %v", owner, err)
	}
	return p
}
