package main

import (
	"context"
	"courier-route-service/internal/adapters/cache"
	"courier-route-service/internal/adapters/files"
	"courier-route-service/internal/adapters/planxml"
	"courier-route-service/internal/adapters/repositories"
	"courier-route-service/internal/api"
	"courier-route-service/internal/platform/config"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/platform/logging"
	"courier-route-service/internal/platform/metrics"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (XML plans, SQLite or Postgres, Redis) behind
// ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatal(err)
	}
	metrics.RegisterDefault()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdownSignal
		log.Info("Received shutdown signal. Initiating graceful shutdown...")
		cancel()
	}()

	conn, runs, err := openRunRepository(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	plans := files.NewCatalog(cfg.PlansDir)
	requests := files.NewCatalog(cfg.RequestsDir)
	graphs := cache.NewGraphCache(plans)

	if cfg.PreloadGraphs {
		preload(ctx, graphs, plans, cfg.PreloadWorkers)
	}

	var routeCache ports.RouteCache
	if cfg.RedisURL != "" {
		ttl := time.Duration(cfg.RouteCacheTTLSeconds) * time.Second
		rc, err := cache.NewRedisRouteCache(ctx, cfg.RedisURL, ttl)
		if err != nil {
			log.WithError(err).Warn("route cache disabled")
		} else {
			defer rc.Close()
			routeCache = rc
			log.WithField("ttl", ttl).Info("Route cache enabled")
		}
	}

	routing := services.NewRoutingService(graphs, runs, routeCache, cfg.MaxCouriers, cfg.DefaultPlan)
	routing.CourierSpeedKmh = cfg.CourierSpeedKmh
	router := api.NewRouter(api.Deps{
		Planner:      routing,
		Runs:         routing,
		Graphs:       graphs,
		Plans:        plans,
		Requests:     requests,
		ParseRequest: planxml.ParseRequest,
		RateRPS:      cfg.RateRPS,
		RateBurst:    cfg.RateBurst,
		AllowOrigins: cfg.AllowOrigins,
	})

	// Large plans take a few seconds to parse on first use.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("Server listening addr=:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	} else {
		log.Info("Server stopped gracefully.")
	}
}

// openRunRepository uses Postgres when DATABASE_URL is set (schema created
// by dbtool) and a local SQLite file otherwise.
func openRunRepository(cfg *config.Config) (*sql.DB, ports.RunRepository, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Run history: postgres")
		return conn, repositories.NewSQLRunRepository(conn), nil
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn, db.DriverSQLite); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open run repository: %w", err)
	}
	log.WithField("path", cfg.DBPath).Info("Run history: sqlite")
	return conn, repositories.NewSqliteRunRepository(conn), nil
}

func preload(ctx context.Context, graphs *cache.GraphCache, plans *files.Catalog, workers int) {
	names, err := plans.Names()
	if err != nil {
		log.WithError(err).Warn("preload: list plans failed")
		return
	}

	start := time.Now()
	if err := graphs.Preload(ctx, names, workers); err != nil {
		log.WithError(err).Warn("preload: some plans failed to load")
	}
	log.WithFields(log.Fields{
		"loaded": len(graphs.Names()),
		"plans":  len(names),
		"dur_ms": time.Since(start).Milliseconds(),
	}).Info("Plan graphs preloaded")
}
