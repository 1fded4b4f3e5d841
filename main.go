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

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"appointment-service/api"
	"appointment-service/appointment"
	"appointment-service/config"
	"appointment-service/database"
	"appointment-service/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, ready, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer closeStore()

	service := api.NewAPI(store, api.Options{
		Logger:    logger,
		AccessLog: os.Stdout,
		Ready:     ready,
		ServeDocs: !cfg.IsProduction(),
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		RateBurst: cfg.RateLimitBurst,
	})
	service.RegisterRoutes()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           service.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.Store), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// openStore returns the configured backend with its health check and a close
// function.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (appointment.Store, func(context.Context) error, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		logger.Info("attempting to connect to database...")
		db, err := database.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("successfully connected to database")

		accessor := appointment.NewAccessor(db)
		if err := accessor.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return accessor, db.PingContext, func() { _ = db.Close() }, nil

	case config.StoreRedis:
		rdb, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("successfully connected to redis", zap.String("addr", cfg.RedisAddr))

		ready := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		return appointment.NewRedisStore(rdb, ""), ready, func() { _ = rdb.Close() }, nil

	default:
		logger.Warn("using in-memory store; appointments are lost on restart")
		return appointment.NewMemoryStore(), nil, func() {}, nil
	}
}
