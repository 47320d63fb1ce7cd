package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/catalog/app/listeners"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/app/store"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/migration"
	"github.com/shashiranjanraj/catalog/pkg/storage"
	"github.com/shashiranjanraj/catalog/pkg/workerpool"
)

// kernel is the booted service graph shared by the commands.
type kernel struct {
	store     store.Store
	products  *services.ProductService
	users     *services.UserService
	presenter resources.ProductResource
	pool      *workerpool.Pool
}

// boot loads config, opens the selected store (migrating it when it is
// SQL), connects the optional Redis cache and image disk, subscribes the
// event listeners and, when SEED_ON_BOOT is on, seeds an empty store.
func boot(ctx context.Context) (*kernel, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	driver := config.StoreDriver()
	st, err := store.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", driver, err)
	}
	if driver == "sql" {
		r := migration.New(database.DB)
		r.Out = logWriter{}
		if err := r.Run(); err != nil && !errors.Is(err, migration.ErrNoMigrations) {
			_ = st.Close()
			return nil, err
		}
	}

	// Memory ids restart on every boot, so cached products would go stale.
	ttl := config.ProductCacheTTL()
	if driver == "memory" {
		ttl = 0
	} else if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache disabled", "error", err)
	}

	k := &kernel{
		store:    st,
		products: services.NewProductService(st, ttl),
		users:    services.NewUserService(st),
	}

	if disk, err := storage.Open(config.StorageDefault()); err != nil {
		logger.Warn("product images disabled", "error", err)
	} else {
		k.pool = workerpool.New(config.ImageLookupWorkers())
		k.presenter = resources.ProductResource{Disk: disk, Pool: k.pool}
	}

	listeners.Register()

	if config.SeedOnBoot() {
		if err := seeders.RunAll(ctx, st); err != nil {
			_ = k.close(ctx)
			return nil, err
		}
	}

	logger.Info("catalog booted", "store", driver, "cache", cache.Enabled(), "env", config.AppEnv())
	return k, nil
}

func (k *kernel) close(context.Context) error {
	if k.pool != nil {
		k.pool.Shutdown()
	}
	return errors.Join(cache.Close(), k.store.Close())
}

// logWriter forwards migration progress lines to the structured logger.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	logger.Debug(string(p))
	return len(p), nil
}
