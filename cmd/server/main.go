// Package main implements the entry point for the taskhub API server,
// a multi-tenant task tracker with credential-based authentication and
// per-user avatars.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/mwhitlock/taskhub/internal/config"
	"github.com/mwhitlock/taskhub/internal/platform/logger"
	"github.com/mwhitlock/taskhub/internal/platform/postgres/migrations"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default: ./config.yaml)")
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*configPath, *migrateCmd); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run loads configuration, wires the application, and either executes a
// migration command or serves HTTP until shutdown.
func run(configPath, migrateCmd string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", "error", err)
		}
	}()

	if migrateCmd != "" {
		appLogger.Info("running migration command", "command", migrateCmd)
		return migrations.Run(context.Background(), db, migrateCmd)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
