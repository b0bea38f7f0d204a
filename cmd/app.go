package cmd

import (
	"context"
	"fmt"

	"github.com/chrisdamba/comanda/internal/database"
	"github.com/chrisdamba/comanda/internal/events"
	"github.com/chrisdamba/comanda/internal/repositories"
	"github.com/chrisdamba/comanda/internal/repositories/memory"
	"github.com/chrisdamba/comanda/internal/repositories/postgres"
	"github.com/chrisdamba/comanda/internal/services"
)

// openStore connects the configured storage. Postgres is migrated before use.
func openStore(ctx context.Context) (*repositories.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn("open_store", "using in-memory storage, data is lost on exit", nil)
		return memory.NewStore(), nil
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if _, err := database.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		return postgres.NewStore(pool), nil
	}
	return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
}

// app is the wired domain layer shared by the commands.
type app struct {
	store     *repositories.Store
	publisher events.Publisher
	svc       *services.Services
}

func newApp(ctx context.Context) (*app, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	publisher, err := events.New(cfg.Events, log)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &app{
		store:     store,
		publisher: publisher,
		svc:       services.New(store, publisher, log, services.OptionsFromConfig(cfg)),
	}, nil
}

// seedCatalog loads the configured catalog file, or the default dishes, into
// an empty catalog.
func (a *app) seedCatalog(ctx context.Context) error {
	var (
		n   int
		err error
	)
	switch {
	case cfg.Seed.File != "":
		n, err = a.svc.Dishes.SeedFromFile(ctx, cfg.Seed.File)
	case cfg.Seed.Defaults:
		n, err = a.svc.Dishes.SeedDefaults(ctx)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed dishes: %w", err)
	}
	if n > 0 {
		log.Info("seed_dishes", "dish catalog seeded", "count", n)
	}
	return nil
}

func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		log.Warn("close_publisher", "failed to close event publisher", err)
	}
	a.store.Close()
}
