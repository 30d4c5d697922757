package plant

import "errors"

// Plant is a single tracked plant belonging to one user.
type Plant struct {
	ID                     int64    `json:"id"`
	CommonName             string   `json:"common_name"`
	ScientificName         string   `json:"scientific_name"`
	Type                   string   `json:"type"`
	Cycle                  string   `json:"cycle"`
	Watering               string   `json:"watering"`
	WateringPeriod         string   `json:"watering_period"`
	WateringBenchmarkUnit  string   `json:"watering_benchmark_unit"`
	WateringBenchmarkValue string   `json:"watering_benchmark_value"`
	Sunlight               string   `json:"sunlight"`
	PetPoison              bool     `json:"pet_poison"`
	HumanPoison            bool     `json:"human_poison"`
	Description            string   `json:"description"`
	ImageURL               string   `json:"image_url"`
	OwnerUsername          string   `json:"owner_username"`
	LastWatering           string   `json:"last_watering"`
	HealthHistory          []string `json:"health_history"`
}

// Sentinel errors for plant operations.
var (
	// ErrPlantNotFound covers both a genuinely absent row and a row owned
	// by a different user; existence is never disclosed across owners.
	ErrPlantNotFound = errors.New("plant not found")
	ErrBlankID       = errors.New("plant id must be populated")
	ErrOwnerMismatch = errors.New("plant owner_username must match the authenticated user")
)
