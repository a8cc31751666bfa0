package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mwhitlock/taskhub/internal/config"
	"github.com/mwhitlock/taskhub/internal/platform/postgres"
	"github.com/mwhitlock/taskhub/internal/service/auth"
	"github.com/mwhitlock/taskhub/internal/service/user"
	"github.com/mwhitlock/taskhub/internal/store"
)

// application holds the shared dependencies so wiring and cleanup stay in
// one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	taskStore    store.TaskStore
	sessionStore store.SessionStore

	sessionService auth.SessionService
	userService    user.UserService
}

// newApplication wires the stores and services from configuration.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewUserStore(db)
	taskStore := postgres.NewTaskStore(db)
	sessionStore := postgres.NewSessionStore(db)

	tokenService, err := auth.NewTokenService(cfg.Auth.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	sessionService := auth.NewSessionService(tokenService, sessionStore)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	userService := user.NewService(db, userStore, taskStore, sessionStore, hasher, hasher)

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		userStore:      userStore,
		taskStore:      taskStore,
		sessionStore:   sessionStore,
		sessionService: sessionService,
		userService:    userService,
	}, nil
}
