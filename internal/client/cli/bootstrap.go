package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iudanet/cfhelper/internal/client/api"
	"github.com/iudanet/cfhelper/internal/client/catalog"
	"github.com/iudanet/cfhelper/internal/client/iocli"
	"github.com/iudanet/cfhelper/internal/client/prefs"
	"github.com/iudanet/cfhelper/internal/client/storage"
	"github.com/iudanet/cfhelper/internal/client/storage/boltdb"
	"github.com/iudanet/cfhelper/internal/client/storage/sqlite"
	"github.com/iudanet/cfhelper/internal/config"
	"github.com/iudanet/cfhelper/internal/logger"
)

// OpenFactory returns the production Factory. Logs go to logOut.
func OpenFactory(logOut io.Writer) Factory {
	return func(ctx context.Context, cfg *config.Config, out iocli.IO) (*Cli, io.Closer, error) {
		log := logger.Setup(logOut, logger.Options{
			Level:   cfg.Level(),
			NoColor: cfg.NoColor,
		})

		store, err := OpenStorage(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("Opened local store", "engine", cfg.Store, "path", cfg.DBPath)

		prefStore := prefs.New(store, log)

		apiCfg := api.DefaultConfig(cfg.APIURL)
		apiCfg.RatePerSecond = cfg.RateLimit
		apiCfg.Logger = log
		client := api.NewClient(apiCfg)

		catalogCfg := catalog.DefaultConfig()
		catalogCfg.Freshness = cfg.CacheTTL
		catalogCfg.CatalogTimeout = cfg.CatalogTimeout
		catalogCfg.ProfileTimeout = cfg.ProfileTimeout
		catalogCfg.Logger = log
		service := catalog.NewService(client, prefStore, catalogCfg)

		c := New(out, service, prefStore, Options{
			PageSize: cfg.PageSize,
			NoColor:  cfg.NoColor,
			Logger:   log,
		})
		return c, store, nil
	}
}

// OpenStorage opens the configured local store, creating its directory
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	switch cfg.Store {
	case config.StoreSQLite:
		s, err := sqlite.New(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	case config.StoreBolt, "":
		s, err := boltdb.New(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidStore, cfg.Store)
	}
}
