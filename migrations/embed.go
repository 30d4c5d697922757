// Package migrations embeds SQL migration files into the binary.
//
// This allows Folium Core to run migrations without the SQL files being
// present on the filesystem - they're compiled into the executable.
package migrations

import (
	"embed"

	"github.com/folium-app/folium-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// Register embedded migrations with the database package.
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // files are at root of embedded FS
}
