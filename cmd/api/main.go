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

	"github.com/huggodev/vntl-api/internal/config"
	"github.com/huggodev/vntl-api/internal/handler"
	authHandler "github.com/huggodev/vntl-api/internal/handler/auth"
	deviceHandler "github.com/huggodev/vntl-api/internal/handler/device"
	patientHandler "github.com/huggodev/vntl-api/internal/handler/patient"
	professionalHandler "github.com/huggodev/vntl-api/internal/handler/professional"
	"github.com/huggodev/vntl-api/internal/middleware"
	"github.com/huggodev/vntl-api/internal/repository/postgres"
	"github.com/huggodev/vntl-api/internal/router"
	authService "github.com/huggodev/vntl-api/internal/service/auth"
	deviceService "github.com/huggodev/vntl-api/internal/service/device"
	"github.com/huggodev/vntl-api/internal/service/linkage"
	patientService "github.com/huggodev/vntl-api/internal/service/patient"
	professionalService "github.com/huggodev/vntl-api/internal/service/professional"
	"github.com/huggodev/vntl-api/pkg/auth"
	"github.com/huggodev/vntl-api/pkg/logger"
	"github.com/huggodev/vntl-api/pkg/metrics"
	"github.com/huggodev/vntl-api/pkg/security"
	"github.com/huggodev/vntl-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.NewLogger(nil)

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)
	professionalRepo := postgres.NewProfessionalRepository(db)
	txRunner := postgres.NewBaseRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry)
	hasher := security.NewBcryptHasher(cfg.JWT.BcryptCost)
	linkageSvc := linkage.NewService(patientRepo, deviceRepo, professionalRepo, txRunner)
	authSvc := authService.NewService(userRepo, tokenSvc, hasher)
	patientSvc := patientService.NewService(patientRepo, professionalRepo, linkageSvc, txRunner, appLog)
	deviceSvc := deviceService.NewService(deviceRepo, patientRepo, txRunner, appLog)
	professionalSvc := professionalService.NewService(professionalRepo, patientRepo, linkageSvc, txRunner, appLog)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, userRepo)
	m := metrics.NewMetrics("vntl")

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc),
		deviceHandler.NewHandler(deviceSvc),
		professionalHandler.NewHandler(professionalSvc),
		handler.NewHealthHandler(db),
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
			CORSConfig: func() middleware.CORSConfig {
				c := middleware.DefaultCORSConfig()
				c.AllowOrigins = cfg.Security.AllowedOrigins
				return c
			}(),
			Metrics: m,
		},
	)
	r.Setup()

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
