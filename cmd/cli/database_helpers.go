package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/db"
)

// DatabaseOperation represents a function that operates on a database connection.
type DatabaseOperation func(ctx context.Context, cfg *config.Config, database *db.DB) error

// withDatabase loads the configuration, connects and runs operation. When
// migrate is set, pending migrations are applied first.
func withDatabase(ctx context.Context, migrate bool, operation DatabaseOperation) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	connect := db.Connect
	if migrate {
		connect = db.ConnectAndMigrate
	}

	database, err := connect(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", closeErr)
		}
	}()

	return operation(ctx, cfg, database)
}
