package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aomi-research/edinet-cli/internal/edinet"
	"github.com/aomi-research/edinet-cli/internal/registry"
	"github.com/aomi-research/edinet-cli/internal/resilience"
	"github.com/aomi-research/edinet-cli/internal/search"
	"github.com/aomi-research/edinet-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DSN
		if dsn == "" {
			dsn = "edinet-cli.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DSN)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initRegistry() (*registry.Registry, error) {
	if cfg.Registry.Path != "" {
		return registry.LoadFile(cfg.Registry.Path)
	}
	return registry.Default()
}

func initClient() (*edinet.Client, error) {
	return edinet.New(edinet.Options{
		BaseURL:    cfg.Edinet.BaseURL,
		APIKey:     cfg.Edinet.APIKey,
		UserAgent:  cfg.Edinet.UserAgent,
		Timeout:    time.Duration(cfg.Edinet.TimeoutSecs) * time.Second,
		RatePerSec: cfg.Edinet.RatePerSec,
		Retry:      resilience.DefaultRetryConfig(),
	})
}

func initSearch(client *edinet.Client) *search.Strategy {
	return search.New(client, search.Options{
		Windows:     cfg.Search.Windows,
		Concurrency: cfg.Search.Concurrency,
		Holidays:    cfg.Search.Holidays,
	})
}
