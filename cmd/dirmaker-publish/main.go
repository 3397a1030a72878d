// dirmaker-publish loads a YAML directory data file and stores it under the
// catalog key in Valkey/Redis, where a dirmaker server with a store source reads it.
//
// Usage:
//
//	ENV=prod dirmaker-publish -file data.yml
//	ENV=prod dirmaker-publish -delete
//
// Connection settings, catalog key and taxonomies come from config/<ENV>.yaml.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirmaker/internal/config"
	dbRedis "github.com/kailas-cloud/dirmaker/internal/db/redis"
	logpkg "github.com/kailas-cloud/dirmaker/internal/logger"
	catalogrepo "github.com/kailas-cloud/dirmaker/internal/repository/catalog"
)

type options struct {
	file   string
	key    string
	delete bool
}

func parseFlags() options {
	opts := options{}
	flag.StringVar(&opts.file, "file", "", "YAML data file (default: catalog.path from config)")
	flag.StringVar(&opts.key, "key", "", "store key (default: catalog.key from config)")
	flag.BoolVar(&opts.delete, "delete", false, "remove the published catalog instead of publishing")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		cancel()
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) error {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	file := opts.file
	if file == "" {
		file = cfg.Catalog.Path
	}
	key := opts.key
	if key == "" {
		key = cfg.Catalog.Key
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	src := catalogrepo.NewStoreSource(store, key, cfg.Catalog.Taxonomies)
	if opts.delete {
		if err := src.Unpublish(ctx); err != nil {
			return fmt.Errorf("unpublish: %w", err)
		}
		logger.Info("Catalog removed", zap.String("key", key))
		return nil
	}

	items, err := catalogrepo.NewFileSource(file, cfg.Catalog.Taxonomies).Load(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	if err := src.Publish(ctx, items); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	logger.Info("Catalog published",
		zap.String("file", file),
		zap.String("key", key),
		zap.Int("items", len(items)),
	)
	return nil
}
