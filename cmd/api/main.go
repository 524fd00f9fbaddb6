package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sanad-platform/sanad-auth/internal/auth"
	"github.com/sanad-platform/sanad-auth/internal/config"
	"github.com/sanad-platform/sanad-auth/internal/db"
	httpx "github.com/sanad-platform/sanad-auth/internal/http"
	"github.com/sanad-platform/sanad-auth/internal/notifications"
	"github.com/sanad-platform/sanad-auth/internal/observability"
)

func main() {
	// Load the config. A missing signing secret is fatal here, before
	// anything listens.
	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	// tracing
	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, "sanad-auth", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracer init failed, continuing without export", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// database
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	seedCtx, cancelSeed := config.WithTimeout(10 * time.Second)
	if err := db.EnsureAdminUser(seedCtx, pool, cfg); err != nil {
		log.Error("admin seed failed", "err", err)
	}
	cancelSeed()

	// revocation store: shared via redis when configured, otherwise
	// in-process (single instance only; see README)
	var revocation auth.RevocationStore

	if cfg.RedisAddr != "" {
		redisStore := auth.NewRedisRevocationStore(auth.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.JWTExpiresIn)

		pingCtx, cancelPing := config.WithTimeout(3 * time.Second)
		err := redisStore.Ping(pingCtx)
		cancelPing()

		if err != nil {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}

		defer redisStore.Close()
		revocation = redisStore
		log.Info("using redis revocation store", "addr", cfg.RedisAddr)
	} else {
		revocation = auth.NewMemoryRevocationStore(cfg.JWTExpiresIn)
		log.Info("using in-memory revocation store")
	}

	// outbound email
	var notifier notifications.Notifier

	if cfg.EmailHost != "" {
		notifier = notifications.NewProtectedNotifier(
			notifications.NewSMTPNotifier(notifications.SMTPConfig{
				Host: cfg.EmailHost,
				Port: cfg.EmailPort,
				User: cfg.EmailUser,
				Pass: cfg.EmailPass,
				From: cfg.EmailFrom,
			}),
			notifications.ProtectedNotifierConfig{},
		)
	} else {
		notifier = notifications.NewLogNotifier()
	}

	router := httpx.NewRouter(log, cfg, pool, revocation, notifier)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
