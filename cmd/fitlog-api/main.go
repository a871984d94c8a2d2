package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/fitlog/internal/cache"
	"github.com/dimitrije/fitlog/internal/config"
	"github.com/dimitrije/fitlog/internal/database"
	"github.com/dimitrije/fitlog/internal/handlers"
	"github.com/dimitrije/fitlog/internal/logging"
	"github.com/dimitrije/fitlog/internal/metrics"
	authmw "github.com/dimitrije/fitlog/internal/middleware"
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/dimitrije/fitlog/internal/oauth"
	"github.com/dimitrije/fitlog/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	hostname, _ := os.Hostname()
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.Log.File,
		LogToStdout:      cfg.Log.ToStdout,
		LogLevel:         cfg.Log.Level,
		LogFormatJSON:    cfg.Log.FormatJSON,
		Environment:      cfg.Env,
		SentryEnabled:    cfg.SentryEnabled(),
		SentryDSN:        cfg.Log.SentryDSN,
		SentryServerName: hostname,
	})
	defer sentry.Flush(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	promRegistry := metrics.NewRegistry()
	metricsManager := metrics.NewManager("fitlog", "api", promRegistry)

	var limiter authmw.RequestRateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Errorf("failed to ping redis, rate limiting disabled: %s", err)
		} else {
			limiter = redis_rate.NewLimiter(rdb)
		}
	}

	reportCache := cache.NewAnalyticsCache(cfg.Cache.SizeMB, cfg.Cache.TTL)

	hub := notify.NewHub()
	go hub.Run(ctx)

	emailService := services.NewEmailService(cfg.SMTP)
	if !emailService.IsConfigured() {
		log.Warn("smtp not configured, share emails will be skipped")
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	accessService := services.NewAccessService(db)
	exerciseService := services.NewExerciseService(db, reportCache)
	workoutService := services.NewWorkoutService(db, reportCache)
	sessionService := services.NewSessionService(db, hub, reportCache, metricsManager)
	shareService := services.NewShareService(db, emailService, hub, metricsManager)
	analyticsService := services.NewAnalyticsService(db, reportCache, metricsManager)
	dashboardService := services.NewDashboardService(db)

	providers := oauth.FromConfig(cfg)
	log.Infof("oauth providers: %v", providers.Names())

	authHandler := handlers.NewAuthHandler(cfg, providers, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	shareHandler := handlers.NewShareHandler(shareService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	accessHandler := handlers.NewAccessHandler(accessService)
	notificationHandler := handlers.NewNotificationHandler(hub)

	go authHandler.RunCleanup(ctx)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(authmw.RequestMetrics(metricsManager))
	app.Use(authmw.LogRequest())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")

	credentials := auth.Group("")
	credentials.Use(authmw.RateLimit(limiter, metricsManager, "credentials", cfg.LoginRateLimitPerMin, cfg.TrustProxy))
	credentials.Post("/register", authHandler.Register)
	credentials.Post("/login", authHandler.Login)

	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/dashboard", dashboardHandler.Get)

	protected.Get("/exercises", exerciseHandler.List)
	protected.Post("/exercises", exerciseHandler.Create)
	protected.Get("/exercises/:exerciseId", exerciseHandler.Get)
	protected.Patch("/exercises/:exerciseId", exerciseHandler.Update)
	protected.Delete("/exercises/:exerciseId", exerciseHandler.Delete)

	protected.Get("/workout-editor", workoutHandler.EditorChoices)
	protected.Get("/workouts", workoutHandler.List)
	protected.Post("/workouts", workoutHandler.Create)
	protected.Get("/workouts/:workoutId", workoutHandler.Get)
	protected.Put("/workouts/:workoutId", workoutHandler.Update)
	protected.Delete("/workouts/:workoutId", workoutHandler.Delete)
	protected.Get("/workouts/:workoutId/analytics", analyticsHandler.WorkoutReport)

	protected.Get("/workouts/:workoutId/shares", shareHandler.ListForWorkout)
	protected.Post("/workouts/:workoutId/shares", shareHandler.Share)
	protected.Delete("/workouts/:workoutId/shares/:shareId", shareHandler.Revoke)
	protected.Get("/shares", shareHandler.ListIncoming)
	protected.Post("/shares/:shareId/accept", shareHandler.Accept)
	protected.Post("/shares/:shareId/decline", shareHandler.Decline)

	protected.Get("/sessions", sessionHandler.List)
	protected.Post("/sessions", sessionHandler.Start)
	protected.Get("/sessions/:sessionId", sessionHandler.Get)
	protected.Post("/sessions/:sessionId/sets", sessionHandler.LogSet)
	protected.Delete("/sessions/:sessionId/sets/:setId", sessionHandler.DeleteSet)
	protected.Post("/sessions/:sessionId/finish", sessionHandler.Finish)

	protected.Get("/analytics", analyticsHandler.UserReport)
	protected.Get("/notifications/stream", notificationHandler.Stream)
	protected.Get("/can/:kind/:id/:action", accessHandler.Can)

	api.Get("/health", func(c *drift.Context) {
		pingCtx, pingCancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer pingCancel()
		if err := db.Pool.Ping(pingCtx); err != nil {
			_ = c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
			return
		}
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := tokenService.CleanupExpired(ctx)
				if err != nil {
					log.Errorf("failed to clean up refresh tokens: %s", err)
					continue
				}
				log.Debugf("removed %d expired refresh tokens", removed)
			}
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Debugf(" > metrics listening on: [%s]", cfg.Metrics.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server: %s", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Infof(" > server listening on: [%s]", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("metrics server shutdown: %s", err)
	}
}
