package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sanad-platform/sanad-auth/internal/auth"
	"github.com/sanad-platform/sanad-auth/internal/config"
	"github.com/sanad-platform/sanad-auth/internal/http/handlers"
	"github.com/sanad-platform/sanad-auth/internal/http/middlewares"
	"github.com/sanad-platform/sanad-auth/internal/notifications"
	"github.com/sanad-platform/sanad-auth/internal/observability"
	"github.com/sanad-platform/sanad-auth/internal/repo/postgres"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(
	log *slog.Logger,
	cfg config.Config,
	pool *pgxpool.Pool,
	revocation auth.RevocationStore,
	notifier notifications.Notifier,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("sanad-auth"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware([]string{cfg.FrontendURL}))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(1 << 20)) // 1 MiB is plenty for auth payloads
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories and services

	usersRepo := postgres.NewUsersRepo(pool, prom)
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	authService := auth.NewService(auth.ServiceOptions{
		Users:       usersRepo,
		JWT:         jwtManager,
		Revocation:  revocation,
		Reset:       auth.NewResetTokenService(cfg.ResetTokenTTL),
		Notifier:    notifier,
		Log:         log,
		Metrics:     prom,
		Env:         cfg.Env,
		FrontendURL: cfg.FrontendURL,
	})

	authHandler := handlers.NewAuthHandler(authService)
	usersHandler := handlers.NewUsersHandler(usersRepo)
	authMw := middlewares.NewAuthMiddleware(jwtManager, revocation, usersRepo)

	// credential endpoints are the obvious brute-force target
	limiter := middlewares.NewRateLimiter(20, time.Minute)
	limited := limiter.RateLimiterMiddleware(middlewares.KeyByIP)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", limited, authHandler.Register)
		authGroup.POST("/login", limited, authHandler.Login)
		authGroup.POST("/logout", authMw.RequireAuth(), authHandler.Logout)
		authGroup.POST("/forgot-password", limited, authHandler.ForgotPassword)
		authGroup.POST("/reset-password", limited, authHandler.ResetPassword)
		authGroup.GET("/me", authMw.RequireAuth(), usersHandler.Me)
	}

	admin := r.Group("/admin", authMw.RequireAuth(), authMw.RequireRole("admin"))
	{
		admin.GET("/users", usersHandler.ListUsers)
	}

	return r
}
