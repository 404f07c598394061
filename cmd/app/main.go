package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loadoutlab/armory/internal/config"
	"github.com/loadoutlab/armory/internal/database"
	"github.com/loadoutlab/armory/internal/database/postgres"
	"github.com/loadoutlab/armory/internal/economy"
	"github.com/loadoutlab/armory/internal/rule"
	"github.com/loadoutlab/armory/internal/server"
	"github.com/loadoutlab/armory/internal/sync"
	"github.com/loadoutlab/armory/internal/user"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)

	catalog, err := economy.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load item catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), int32(cfg.DBMaxConns), cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repo := postgres.NewUserRepository(dbPool)
	rules := rule.NewConfigProvider(cfg)
	dispatcher := sync.NewDispatcher(catalog, rules)
	userService := user.NewService(repo, catalog, dispatcher, user.ServiceConfig{
		MaxItems:            cfg.InventoryMaxItems,
		StorageUnitMaxItems: cfg.InventoryStorageUnitMaxItems,
		CacheSize:           cfg.InventoryCacheSize,
		CacheTTL:            time.Duration(cfg.InventoryCacheTTL) * time.Second,
	})

	srv := server.NewServer(cfg.Port, cfg.APIKey, dbPool, userService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
