package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/config"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/database"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/handler/health"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/locations"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/migrations"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/server"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	version, err := migrations.Run(ctx, db, logger)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)

	catalog := locations.NewCatalog(db)
	if cfg.SeedDemo {
		if err := locations.SeedDemo(ctx, logger, catalog); err != nil {
			return fmt.Errorf("seeding locations: %w", err)
		}
	}

	matches := server.NewMatchDocStore(db)
	checks := map[string]health.Checker{
		"sqlite":    health.CheckFunc(db.PingContext),
		"locations": catalogChecker{catalog},
	}

	// --- Redis (optional) ---
	var board server.Leaderboard = matches
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		redisBoard := server.NewRedisLeaderboard(rdb)
		board = redisBoard
		checks["redis"] = redisBoard
		logger.Info("connected to redis", "leaderboard", "redis")
	} else {
		logger.Info("redis not configured", "leaderboard", "sqlite")
	}

	// --- Sessions ---
	sessions := session.NewRegistry(logger)
	hub := server.NewHub(logger, server.HubConfig{
		Sessions:    sessions,
		NewProvider: func() session.Provider { return catalog.NewDeck() },
		Fallback:    cfg.Fallback.Policy(),
		Broker:      server.NewBroker(),
		Matches:     matches,
		Board:       board,
	})

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Hub:       hub,
		Locations: catalog,
		Checks:    checks,
		SPADir:    cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return sessions.RunJanitor(gctx, cfg.SessionTTL)
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// catalogChecker fails while there is nothing to play.
type catalogChecker struct{ c *locations.Catalog }

func (c catalogChecker) Check(ctx context.Context) error {
	n, err := c.c.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return locations.ErrNoLocations
	}
	return nil
}
