// Package server boots the POS: configuration, database, cache, storage,
// background workers, the live sales feed, and the HTTP stack.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/routes"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/config"
	"github.com/Blawness/SimplePOS/pkg/cache"
	"github.com/Blawness/SimplePOS/pkg/cart"
	"github.com/Blawness/SimplePOS/pkg/database"
	"github.com/Blawness/SimplePOS/pkg/event"
	"github.com/Blawness/SimplePOS/pkg/logger"
	"github.com/Blawness/SimplePOS/pkg/metrics"
	"github.com/Blawness/SimplePOS/pkg/middleware"
	"github.com/Blawness/SimplePOS/pkg/orm"
	"github.com/Blawness/SimplePOS/pkg/queue"
	"github.com/Blawness/SimplePOS/pkg/reqid"
	"github.com/Blawness/SimplePOS/pkg/router"
	"github.com/Blawness/SimplePOS/pkg/schedule"
	"github.com/Blawness/SimplePOS/pkg/storage"
	"github.com/Blawness/SimplePOS/pkg/ws"
)

const (
	shutdownTimeout = 10 * time.Second
	queueWorkers    = 4
)

// queryCache adapts the Redis cache to the ORM's Cacher interface.
type queryCache struct{}

func (queryCache) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (queryCache) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// Start boots every subsystem and serves HTTP until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}
	if config.JWTSecret() == "" {
		return errors.New("JWT_SECRET is not set; refusing to start")
	}

	setupLogger()

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}
	orm.CacheStore = queryCache{}
	storage.Connect()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services.RegisterJobs()
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, queueWorkers)

	hub := ws.NewHub()
	go hub.Run()
	event.Listen(event.TransactionCreated, func(payload interface{}) {
		msg, err := json.Marshal(payload)
		if err != nil {
			logger.Error("sale broadcast marshal failed", "error", err)
			return
		}
		hub.Broadcast <- msg
	})

	startScheduler(ctx)

	carts := cart.NewStore()
	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		carts.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)
	routes.RegisterAPI(r, hub)
	r.HandleFunc("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:         ":" + config.AppPort(),
		Handler:      r.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupLogger fans log records out to Mongo when MONGO_URI is configured so
// the audit trail survives process restarts.
func setupLogger() {
	uri := config.Get("MONGO_URI", "")
	if uri == "" {
		return
	}
	mongoHandler, err := logger.NewMongoHandler(uri, config.Get("MONGO_DB", "simplepos"), "logs")
	if err != nil {
		logger.Warn("mongo log sink unavailable", "error", err)
		return
	}
	text := slog.NewTextHandler(os.Stdout, nil)
	logger.UseHandler(logger.NewMultiHandler(text, mongoHandler))
}

// startScheduler registers periodic maintenance and starts the ticker.
func startScheduler(ctx context.Context) {
	maintenance := services.NewPasswordResetService(
		repositories.NewUserRepository(),
		repositories.NewResetTokenRepository(),
	)
	schedule.Hourly().
		Name("purge-expired-reset-tokens").
		WithoutOverlapping().
		Run(maintenance.PurgeExpiredTokens)
	schedule.Start(ctx)
}
