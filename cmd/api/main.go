package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/carelink/hospital-api/internal/config"
	"github.com/carelink/hospital-api/internal/handler"
	appointmentHandler "github.com/carelink/hospital-api/internal/handler/appointment"
	billingHandler "github.com/carelink/hospital-api/internal/handler/billing"
	patientHandler "github.com/carelink/hospital-api/internal/handler/patient"
	staffHandler "github.com/carelink/hospital-api/internal/handler/staff"
	tenantHandler "github.com/carelink/hospital-api/internal/handler/tenant"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/repository/postgres"
	"github.com/carelink/hospital-api/internal/router"
	appointmentService "github.com/carelink/hospital-api/internal/service/appointment"
	billingService "github.com/carelink/hospital-api/internal/service/billing"
	eventService "github.com/carelink/hospital-api/internal/service/event"
	patientService "github.com/carelink/hospital-api/internal/service/patient"
	staffService "github.com/carelink/hospital-api/internal/service/staff"
	tenantService "github.com/carelink/hospital-api/internal/service/tenant"
	"github.com/carelink/hospital-api/pkg/auth"
	"github.com/carelink/hospital-api/pkg/clock"
	"github.com/carelink/hospital-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("hospital_api")

	// Repositories
	tenantRepo := postgres.NewTenantRepository(db)
	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	billRepo := postgres.NewBillRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	eventSvc := eventService.NewService(outboxRepo)
	tenantSvc := tenantService.NewService(tenantRepo)
	patientSvc := patientService.NewService(patientRepo)
	staffSvc := staffService.NewService(userRepo)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		patientRepo,
		userRepo,
		eventSvc,
		m,
		clock.System(),
		appointmentService.PermissiveTransitions,
	)
	billingSvc := billingService.NewService(billRepo, patientRepo, eventSvc, m)

	// Middleware
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.API.RateLimit),
		Burst: cfg.API.RateBurst,
	})

	// Handlers
	tenantH := tenantHandler.NewHandler(tenantSvc)
	r := router.NewRouter(
		router.Config{
			RateLimiter: rateLimiter,
			CORS:        middleware.DefaultCORSConfig(),
			Metrics:     m,
		},
		authMiddleware,
		handler.NewHealthHandler(db),
		[]router.PublicHandler{tenantH},
		[]router.Handler{
			tenantH,
			patientHandler.NewHandler(patientSvc),
			staffHandler.NewHandler(staffSvc),
			appointmentHandler.NewHandler(appointmentSvc),
			billingHandler.NewHandler(billingSvc),
		},
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
