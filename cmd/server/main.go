package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tenfreethrows/freethrows/internal/admin"
	"github.com/tenfreethrows/freethrows/internal/api"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/database"
	"github.com/tenfreethrows/freethrows/internal/leaderboard"
	"github.com/tenfreethrows/freethrows/internal/logging"
	"github.com/tenfreethrows/freethrows/internal/migrations"
	"github.com/tenfreethrows/freethrows/internal/redis"
	"github.com/tenfreethrows/freethrows/internal/ws"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		logger.Fatal("failed to load tuning", "file", cfg.TuningFile, "err", err)
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		logger.Info("running DB migrations on startup")
		if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations", logging.For(logger, "migrate")); err != nil {
			logger.Fatal("failed to run migrations", "err", err)
		}
	}

	rdb, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to redis", "err", err)
	}
	defer rdb.Close()

	// admin overrides from runtime_config sit on top of the tuning file
	rules := admin.NewRuntimeTuning(tuning)
	if n, err := rules.Reload(ctx, db); err != nil {
		logger.Warn("runtime config not applied", "err", err)
	} else {
		logger.Info("runtime config applied", "entries", n)
	}

	board := leaderboard.NewRepository(db, rdb,
		time.Duration(cfg.LeaderboardCacheSeconds)*time.Second, logging.For(logger, "leaderboard"))

	wsLog := logging.For(logger, "ws")
	hub := ws.NewHub(wsLog)
	ws.StartRoundEventSubscriber(ctx, rdb, hub, wsLog)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	api.SetupRoutes(router, api.Deps{
		DB:          db,
		Redis:       rdb,
		Config:      cfg,
		Leaderboard: board,
		Tuning:      rules,
		Hub:         hub,
		Logger:      logging.For(logger, "api"),
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("starting Ten Free Throws server", "port", cfg.Port, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("failed to start server", "err", err)
	}
	logger.Info("server stopped")
}
