package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ridexchange/dealer-api/internal/config"
	"github.com/ridexchange/dealer-api/internal/email"
	"github.com/ridexchange/dealer-api/internal/handler"
	bookingHandler "github.com/ridexchange/dealer-api/internal/handler/booking"
	dealershipHandler "github.com/ridexchange/dealer-api/internal/handler/dealership"
	"github.com/ridexchange/dealer-api/internal/middleware"
	"github.com/ridexchange/dealer-api/internal/repository/postgres"
	"github.com/ridexchange/dealer-api/internal/router"
	auditService "github.com/ridexchange/dealer-api/internal/service/audit"
	bookingService "github.com/ridexchange/dealer-api/internal/service/booking"
	dealershipService "github.com/ridexchange/dealer-api/internal/service/dealership"
	"github.com/ridexchange/dealer-api/pkg/logger"
	"github.com/ridexchange/dealer-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.Log.Level))
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var cache *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis URL")
		}
		cache = redis.NewClient(opts)
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, availability cache disabled")
			cache = nil
		}
	}

	m := metrics.NewMetrics("dealer_api")

	// Repositories
	bookingRepo := postgres.NewBookingRepository(db, m)
	dealershipRepo := postgres.NewDealershipRepository(db, m)
	auditRepo := postgres.NewAuditRepository(db, m)

	// Services
	auditor := auditService.NewService(auditRepo)
	dealershipSvc := dealershipService.NewService(dealershipRepo, cfg.Cache.DealershipTTL)
	mailer := email.NewService(cfg.SMTP)
	bookingSvc := bookingService.NewService(bookingRepo, dealershipSvc, cache, mailer, auditor, m)

	// Seed the default working-hours calendar before serving traffic.
	if err := dealershipSvc.EnsureSeeded(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed dealership calendar")
	}

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.StaffRole)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	dealershipH := dealershipHandler.NewHandler(dealershipSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.NewRouter(authMiddleware, bookingH, dealershipH, healthH, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORS:             middleware.DefaultCORSConfig(),
		MetricsNamespace: "dealer_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
