package plant

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Repository defines plant persistence. Reads are always scoped to an
// owner; there is no unscoped lookup.
type Repository interface {
	ListByOwner(ctx context.Context, owner string) ([]Plant, error)
	GetByIDForOwner(ctx context.Context, id int64, owner string) (*Plant, error)
	Insert(ctx context.Context, p *Plant) error
	Update(ctx context.Context, p *Plant) error
	Delete(ctx context.Context, id int64, owner string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed plant repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const plantColumns = `id, common_name, scientific_name, type, cycle, watering,
	watering_period, watering_benchmark_unit, watering_benchmark_value, sunlight,
	pet_poison, human_poison, description, image_url, owner_username,
	last_watering, health_history`

// ListByOwner returns all plants belonging to the given owner.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, owner string) ([]Plant, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+plantColumns+" FROM plants WHERE owner_username = ? ORDER BY id ASC", owner)
	if err != nil {
		return nil, fmt.Errorf("listing plants: %w", err)
	}
	defer rows.Close()

	var plants []Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plants: %w", err)
	}

	if plants == nil {
		plants = []Plant{}
	}
	return plants, nil
}

// GetByIDForOwner retrieves a plant by ID, visible only to its owner.
func (r *SQLiteRepository) GetByIDForOwner(ctx context.Context, id int64, owner string) (*Plant, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+plantColumns+" FROM plants WHERE id = ? AND owner_username = ?", id, owner)
	p, err := scanPlant(row)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Insert persists a new plant and assigns its ID.
func (r *SQLiteRepository) Insert(ctx context.Context, p *Plant) error {
	history, err := marshalHistory(p.HealthHistory)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO plants (common_name, scientific_name, type, cycle, watering,
			watering_period, watering_benchmark_unit, watering_benchmark_value, sunlight,
			pet_poison, human_poison, description, image_url, owner_username,
			last_watering, health_history)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CommonName, p.ScientificName, p.Type, p.Cycle, p.Watering,
		p.WateringPeriod, p.WateringBenchmarkUnit, p.WateringBenchmarkValue, p.Sunlight,
		boolToInt(p.PetPoison), boolToInt(p.HumanPoison), p.Description, p.ImageURL,
		p.OwnerUsername, p.LastWatering, history,
	)
	if err != nil {
		return fmt.Errorf("inserting plant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted plant id: %w", err)
	}
	p.ID = id

	return nil
}

// Update rewrites a plant's mutable fields. The owner is part of the WHERE
// clause, so a row owned by someone else updates nothing.
func (r *SQLiteRepository) Update(ctx context.Context, p *Plant) error {
	history, err := marshalHistory(p.HealthHistory)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE plants SET common_name = ?, scientific_name = ?, type = ?, cycle = ?,
			watering = ?, watering_period = ?, watering_benchmark_unit = ?,
			watering_benchmark_value = ?, sunlight = ?, pet_poison = ?, human_poison = ?,
			description = ?, image_url = ?, last_watering = ?, health_history = ?
		 WHERE id = ? AND owner_username = ?`,
		p.CommonName, p.ScientificName, p.Type, p.Cycle,
		p.Watering, p.WateringPeriod, p.WateringBenchmarkUnit,
		p.WateringBenchmarkValue, p.Sunlight, boolToInt(p.PetPoison), boolToInt(p.HumanPoison),
		p.Description, p.ImageURL, p.LastWatering, history,
		p.ID, p.OwnerUsername,
	)
	if err != nil {
		return fmt.Errorf("updating plant: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrPlantNotFound
	}
	return nil
}

// Delete removes a plant, visible only to its owner.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64, owner string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM plants WHERE id = ? AND owner_username = ?", id, owner)
	if err != nil {
		return fmt.Errorf("deleting plant: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrPlantNotFound
	}
	return nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanPlant scans a plant from any scanner (Row or Rows).
func scanPlant(s scanner) (*Plant, error) {
	var p Plant
	var petPoison, humanPoison int
	var history string

	err := s.Scan(&p.ID, &p.CommonName, &p.ScientificName, &p.Type, &p.Cycle,
		&p.Watering, &p.WateringPeriod, &p.WateringBenchmarkUnit, &p.WateringBenchmarkValue,
		&p.Sunlight, &petPoison, &humanPoison, &p.Description, &p.ImageURL,
		&p.OwnerUsername, &p.LastWatering, &history)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlantNotFound
		}
		return nil, fmt.Errorf("scanning plant: %w", err)
	}

	p.PetPoison = petPoison != 0
	p.HumanPoison = humanPoison != 0

	if err := json.Unmarshal([]byte(history), &p.HealthHistory); err != nil {
		return nil, fmt.Errorf("decoding health history: %w", err)
	}
	if p.HealthHistory == nil {
		p.HealthHistory = []string{}
	}

	return &p, nil
}

// marshalHistory encodes the health history as the JSON text stored in the
// health_history column. A nil slice stores as an empty array.
func marshalHistory(history []string) (string, error) {
	if history == nil {
		history = []string{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("encoding health history: %w", err)
	}
	return string(data), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
