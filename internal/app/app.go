// Package app wires configuration, storage, identity and the event bus into
// the services that commands and the TUI consume.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/eventbus"
	"github.com/colonyops/taskboard/internal/core/identity"
	"github.com/colonyops/taskboard/internal/core/profile"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/data/db"
	"github.com/colonyops/taskboard/internal/data/stores"
)

const busBuffer = 256

// App is the central entry point for all taskboard operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Bus      *eventbus.EventBus
	Identity task.Identity
	Tasks    *task.Controller
	Profiles *profile.Service

	log       zerolog.Logger
	busCancel context.CancelFunc
}

// Options override the identity found in config.
type Options struct {
	UserID string
	Token  string
}

// Open connects to the configured database and builds the services. The
// event bus runs until Close.
func Open(ctx context.Context, cfg *config.Config, opts Options, logger zerolog.Logger) (*App, error) {
	userID := firstNonEmpty(opts.UserID, cfg.UserID)
	token := firstNonEmpty(opts.Token, cfg.Auth.Token)

	ident, err := identity.Resolve(userID, token, cfg.Auth.Secret)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	database, err := openDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New(busBuffer)
	eventbus.RegisterDebugLogger(bus, logger.With().Str("component", "eventbus").Logger())
	eventbus.NewNotificationRouter(bus).Register()

	busCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	go bus.Start(busCtx)

	ctrl := task.NewController(stores.NewTaskStore(database, logger), ident, bus, logger)
	if err := ctrl.SetFilter(cfg.DefaultFilter()); err != nil {
		cancel()
		_ = database.Close()
		return nil, err
	}

	return &App{
		Config:    cfg,
		DB:        database,
		Bus:       bus,
		Identity:  ident,
		Tasks:     ctrl,
		Profiles:  profile.NewService(stores.NewProfileStore(database), ident, logger),
		log:       logger,
		busCancel: cancel,
	}, nil
}

func openDB(cfg *config.Config, logger zerolog.Logger) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
		Logger:       logger.With().Str("component", "db").Logger(),
	}

	if cfg.Database.Driver == config.DriverPostgres {
		database, err := db.OpenPostgres(cfg.Database.DSN, opts)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return database, nil
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err != nil && stores.IsCorruptionError(err) {
		backup, recErr := stores.RecoverFromCorruption(cfg.DataDir)
		if recErr != nil {
			return nil, errors.Join(fmt.Errorf("open database: %w", err), recErr)
		}
		logger.Warn().Err(err).Str("backup", backup).Msg("database corrupted, starting fresh")
		database, err = db.Open(cfg.DataDir, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}

// UserID returns the signed-in user or task.ErrUnauthenticated.
func (a *App) UserID() (string, error) {
	id, ok := a.Identity.CurrentUserID()
	if !ok {
		return "", task.ErrUnauthenticated
	}
	return id, nil
}

// LoadTasks loads the signed-in user's tasks into the controller.
func (a *App) LoadTasks(ctx context.Context) ([]task.Task, error) {
	id, err := a.UserID()
	if err != nil {
		return nil, err
	}
	return a.Tasks.Load(ctx, id)
}

// Close stops the event bus and closes the database.
func (a *App) Close() error {
	if a.busCancel != nil {
		a.busCancel()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
