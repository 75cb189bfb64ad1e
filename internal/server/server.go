// Package server boots the application: configuration, logging, stores,
// background workers, the HTTP stack, and a graceful shutdown path.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanyajewels/storefront/app/routes"
	"github.com/vanyajewels/storefront/config"
	"github.com/vanyajewels/storefront/pkg/cache"
	"github.com/vanyajewels/storefront/pkg/database"
	"github.com/vanyajewels/storefront/pkg/logger"
	"github.com/vanyajewels/storefront/pkg/metrics"
	"github.com/vanyajewels/storefront/pkg/middleware"
	"github.com/vanyajewels/storefront/pkg/queue"
	"github.com/vanyajewels/storefront/pkg/reqid"
	"github.com/vanyajewels/storefront/pkg/router"
	"github.com/vanyajewels/storefront/pkg/storage"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 10 * time.Second
)

// Start runs the server until SIGINT/SIGTERM. A failed Mongo connection is
// fatal; a missing Redis only degrades the cache and queue to in-process
// behavior.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := database.Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect", "error", err)
		}
	}()

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, cache disabled and queue falling back to memory", "error", err)
	} else if rdb := cache.Client(); rdb != nil {
		queue.UseDriver(queue.NewRedisDriver(rdb, ""))
	}

	storage.Connect()
	queue.StartWorkers(ctx, queueWorkers)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           buildHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// buildHandler assembles the middleware stack and the route table. Order:
// metrics wraps everything; recovery catches panics from all inner layers;
// request ids are minted before the logger so log lines carry them.
func buildHandler() http.Handler {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions(config.ClientOrigin())),
		middleware.RateLimit(300, time.Minute),
	)

	r.Static("/uploads", uploadsDir())
	routes.RegisterAPI(r)

	return r.Handler()
}

func uploadsDir() string {
	root := config.StorageLocalRoot()
	if root == "" {
		root = "public/uploads"
	}
	return root
}
