package cli

import (
	"fmt"

	"github.com/anstrom/escudo/internal/auth"
	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/logging"
	"github.com/anstrom/escudo/internal/metrics"
	"github.com/anstrom/escudo/internal/scanning"
	"github.com/anstrom/escudo/internal/services"
)

// app bundles the services a command needs, wired from one configuration.
type app struct {
	auth  *auth.Service
	scans *services.ScanService
}

// newApp wires repositories, the executor and the services. A nil recorder
// disables metrics.
func newApp(cfg *config.Config, database *db.DB, recorder metrics.Recorder) (*app, error) {
	logger := logging.Default()

	tokens, err := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}

	executor := scanning.NewNmapExecutor(
		append(cfg.ExecutorOptions(), scanning.WithLogger(logger))...,
	)

	return &app{
		auth: auth.NewService(db.NewUserRepository(database), tokens, logger),
		scans: services.NewScanService(
			executor,
			db.NewScanResultRepository(database),
			recorder,
			logger,
		),
	}, nil
}
