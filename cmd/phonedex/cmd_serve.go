package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HerbHall/phonedex/internal/catalog"
	"github.com/HerbHall/phonedex/internal/config"
	"github.com/HerbHall/phonedex/internal/favorites"
	"github.com/HerbHall/phonedex/internal/server"
	"github.com/HerbHall/phonedex/internal/services"
	"github.com/HerbHall/phonedex/internal/session"
	"github.com/HerbHall/phonedex/internal/settings"
	"github.com/HerbHall/phonedex/internal/store"
	"github.com/HerbHall/phonedex/internal/version"
)

// sessionSweepInterval is how often expired in-memory sessions are dropped.
const sessionSweepInterval = 10 * time.Minute

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("PhoneDex server starting", zap.String("version", version.Short()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	cat := openCatalog(cfg)
	n, err := cat.Len()
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("phones", n))
	engine := catalog.NewEngine(cat)

	// Database
	dbPath := cfg.GetString("database.path")
	db, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", dbPath), zap.Error(err))
	}
	defer db.Close()

	favRepo, err := services.NewSQLiteFavoriteRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize favorites", zap.Error(err))
	}
	ratingRepo, err := services.NewSQLiteRatingRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize ratings", zap.Error(err))
	}
	settingsRepo, err := services.NewSQLiteSettingsRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize settings", zap.Error(err))
	}

	// Sessions
	sessions, closeSessions, err := openSessionStore(ctx, cfg, logger.Named("session"))
	if err != nil {
		logger.Fatal("failed to initialize session store", zap.Error(err))
	}
	defer closeSessions()

	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	srv := server.New(addr, server.Options{
		AllowedOrigins: cfg.GetStringSlice("cors.allowed_origins"),
		RateLimit:      rate.Limit(cfg.GetFloat64("rate_limit.rps")),
		RateBurst:      cfg.GetInt("rate_limit.burst"),
		TrustProxy:     cfg.GetBool("server.trust_proxy"),
		Dataset:        cat,
	}, logger.Named("http"),
		catalog.NewHandler(engine, logger.Named("catalog")),
		session.NewHandler(sessions, engine, logger.Named("session")),
		favorites.NewHandler(favRepo, ratingRepo, engine, logger.Named("favorites")),
		settings.NewHandler(settingsRepo, logger.Named("settings")),
	)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("PhoneDex server ready", zap.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	cancel()

	if err := db.Checkpoint(shutdownCtx); err != nil {
		logger.Warn("WAL checkpoint failed", zap.Error(err))
	}

	logger.Info("PhoneDex server stopped")
}

// openSessionStore builds the configured session backend. The returned
// func releases its resources.
func openSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	ttl := cfg.GetDuration("session.ttl")

	switch backend := cfg.GetString("session.backend"); backend {
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.GetString("redis.url"))
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis session store", zap.Duration("ttl", ttl))
		return session.NewRedisStore(rdb, ttl), func() { _ = rdb.Close() }, nil

	case "memory", "":
		mem := session.NewMemoryStore(ttl)
		go func() {
			ticker := time.NewTicker(sessionSweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					logger.Debug("swept sessions", zap.Int("live", mem.Len()))
				}
			}
		}()
		logger.Info("using in-memory session store", zap.Duration("ttl", ttl))
		return mem, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", backend)
	}
}
