package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"policereserves/roster/internal/api"
	"policereserves/roster/internal/common"
	"policereserves/roster/internal/config"
	"policereserves/roster/internal/db"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/metrics"
	"policereserves/roster/internal/routes"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Police Reserves Roster API
// @version 1.0
// @description Membership, equipment, scheduling and policy tracking for a police reserves unit.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Roster starting up",
		"environment", cfg.AppEnv,
		"driver", cfg.Database.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		logging.Fatal("Failed to open database (GORM)", "error", err.Error())
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		logging.Fatal("Failed to migrate database", "error", err.Error())
	}
	logging.Info("Database connected and migrated")

	// Report queries go through sqlx. On postgres it gets its own pool; on
	// sqlite it must share gorm's single connection.
	var sqlxDB *sqlx.DB
	if cfg.Database.Driver == "postgres" {
		sqlxDB, err = db.InitPostgres(cfg.Database.DSN())
	} else {
		sqlxDB, err = db.WrapORM(gdb)
	}
	if err != nil {
		logging.Fatal("Failed to connect (sqlx)", "error", err.Error())
	}

	redisClient := common.NewRedisClient(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, gdb, sqlxDB, redisClient, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	if cfg.Reminders.Interval > 0 {
		go deps.Services.Reminders.RunScheduled(ctx, cfg.Reminders.Interval)
	}

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", routes.RegisterRoutes(deps))
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "addr", cfg.Addr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}
