package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/krishi-mitr/backend/internal/config"
	"github.com/ayush/krishi-mitr/backend/internal/logger"
	"github.com/ayush/krishi-mitr/backend/internal/store"
)

// app bundles what every command needs: config, logger and the store with
// its backend, lock and optional snapshot mirror.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *store.Store
	minio   *store.MinioStore
	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	backend, err := a.openBackend(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	opts := []store.Option{store.WithLogger(log)}

	// ── Redis lock ───────────────────────────────────────────
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		a.closers = append(a.closers, func() { rdb.Close() })
		opts = append(opts, store.WithLocker(store.NewRedisLocker(rdb, "krishi-mitr:lock:"+cfg.DocumentName, cfg.LockTTL)))
		log.Infow("using redis store lock", "addr", cfg.RedisAddr)
	}

	// ── MinIO snapshots ──────────────────────────────────────
	if cfg.MinioEnabled() {
		a.minio, err = store.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioObjectKey, cfg.MinioUseSSL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("minio connect: %w", err)
		}
		opts = append(opts, store.WithMirror(a.minio))
		log.Infow("mirroring snapshots to minio", "bucket", cfg.MinioBucket, "key", cfg.MinioObjectKey)
	}

	a.store = store.New(backend, opts...)
	return a, nil
}

func (a *app) openBackend(ctx context.Context) (store.Backend, error) {
	switch a.cfg.StoreBackend {
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		a.closers = append(a.closers, func() { client.Disconnect(context.Background()) })
		a.log.Infow("using mongo backend", "db", a.cfg.MongoDB, "document", a.cfg.DocumentName)
		return store.NewMongoBackend(client.Database(a.cfg.MongoDB), a.cfg.DocumentName), nil

	case "postgres":
		pool, err := pgxpool.New(ctx, a.cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		backend := store.NewPostgresBackend(pool, a.cfg.DocumentName)
		if err := backend.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		a.log.Infow("using postgres backend", "document", a.cfg.DocumentName)
		return backend, nil
	}

	a.log.Infow("using file backend", "path", a.cfg.DBFile)
	return store.NewFileBackend(a.cfg.DBFile), nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.log.Close()
}
