package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"

	"github.com/angsant/trabalho-2-bd-2/internal/pkg/application/catalog"
	"github.com/angsant/trabalho-2-bd-2/internal/pkg/infrastructure/cache"
	"github.com/angsant/trabalho-2-bd-2/internal/pkg/infrastructure/metrics"
	"github.com/angsant/trabalho-2-bd-2/internal/pkg/infrastructure/router"
	"github.com/angsant/trabalho-2-bd-2/internal/pkg/infrastructure/storage"
	"github.com/angsant/trabalho-2-bd-2/internal/pkg/presentation/api"
)

const (
	appName string = "catalog-api"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	store, err := storage.Connect(ctx, storage.LoadConfiguration(ctx))
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	cfg, err := loadCatalogConfig(ctx)
	if err != nil {
		log.Error("failed to load catalog configuration", "err", err.Error())
		os.Exit(1)
	}

	app := catalog.New(ctx, cfg, store)

	r := router.New(appName)

	err = api.RegisterHandlers(ctx, r, app, newDatasetCache(ctx, log), metrics.NewRegistry())
	if err != nil {
		log.Error("failed to register handlers", "err", err.Error())
		os.Exit(1)
	}

	port := env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080")
	log.Info("starting to listen for connections", slog.String("port", port))

	err = http.ListenAndServe(":"+port, r)
	if err != nil {
		log.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}
}

func loadCatalogConfig(ctx context.Context) (catalog.Config, error) {
	configPath := env.GetVariableOrDefault(ctx, "CATALOG_CONFIG", "")
	if configPath == "" {
		return catalog.DefaultConfig(), nil
	}

	f, err := os.Open(configPath)
	if err != nil {
		return catalog.Config{}, err
	}
	defer f.Close()

	cfg, err := catalog.LoadConfiguration(f)
	if err != nil {
		return catalog.Config{}, err
	}

	return *cfg, nil
}

// newDatasetCache prefers redis when one is configured and falls back to the
// in-process cache otherwise. The catalog is correct either way.
func newDatasetCache(ctx context.Context, log *slog.Logger) cache.DatasetCache {
	ttlStr := env.GetVariableOrDefault(ctx, "CACHE_TTL", "10m")

	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		log.Warn("invalid CACHE_TTL, using 10m", "err", err.Error())
		ttl = 10 * time.Minute
	}

	addr := env.GetVariableOrDefault(ctx, "REDIS_ADDR", "")
	if addr == "" {
		return cache.NewMemoryCache(ttl)
	}

	c, err := cache.NewRedisCache(ctx, addr, env.GetVariableOrDefault(ctx, "REDIS_PASSWORD", ""), 0, ttl)
	if err != nil {
		log.Warn("redis unavailable, using in-memory cache", "err", err.Error())
		return cache.NewMemoryCache(ttl)
	}

	return c
}
