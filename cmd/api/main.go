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

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/triage-assistant/internal/backend"
	"github.com/jwalitptl/triage-assistant/internal/config"
	"github.com/jwalitptl/triage-assistant/internal/handler/backends"
	"github.com/jwalitptl/triage-assistant/internal/handler/diagnosis"
	healthHandler "github.com/jwalitptl/triage-assistant/internal/handler/health"
	languageHandler "github.com/jwalitptl/triage-assistant/internal/handler/language"
	"github.com/jwalitptl/triage-assistant/internal/handler/prometheus"
	"github.com/jwalitptl/triage-assistant/internal/handler/transcription"
	"github.com/jwalitptl/triage-assistant/internal/handler/xray"
	"github.com/jwalitptl/triage-assistant/internal/middleware"
	"github.com/jwalitptl/triage-assistant/internal/repository"
	"github.com/jwalitptl/triage-assistant/internal/repository/postgres"
	"github.com/jwalitptl/triage-assistant/internal/router"
	"github.com/jwalitptl/triage-assistant/internal/service/configsvc"
	healthService "github.com/jwalitptl/triage-assistant/internal/service/health"
	"github.com/jwalitptl/triage-assistant/internal/service/imaging"
	"github.com/jwalitptl/triage-assistant/internal/service/translate"
	"github.com/jwalitptl/triage-assistant/internal/service/triage"
	"github.com/jwalitptl/triage-assistant/pkg/auth"
	"github.com/jwalitptl/triage-assistant/pkg/logger"
	"github.com/jwalitptl/triage-assistant/pkg/messaging"
	"github.com/jwalitptl/triage-assistant/pkg/messaging/redis"
	"github.com/jwalitptl/triage-assistant/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
	})
	log.Logger = appLog.Zerolog()

	m := metrics.NewMetrics("triage")
	store := config.NewStore(cfg.Backends, cfg.BackendsFile)
	client := backend.NewClient(appLog,
		backend.WithMetrics(m),
		backend.WithProbeTimeout(cfg.Health.ProbeTimeout),
	)

	// Initialize repository; saves fail with a database error without one.
	var repo repository.TriageRepository
	if cfg.Database.Host != "" {
		repo = postgres.NewTriageRepository(postgres.NewConnector(cfg.Database), m)
	} else {
		appLog.Warn("database host is not configured; diagnoses cannot be saved")
	}

	// Initialize Redis publisher for triage.saved events
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, appLog.Zerolog(), m)
		cancel()
		if err != nil {
			appLog.Error(err, "failed to connect to Redis; saved events will not be published")
		} else {
			channelPublisher := messaging.NewChannelPublisher(broker, cfg.Redis.Channel)
			defer channelPublisher.Close()
			publisher = channelPublisher
		}
	}

	// Initialize services
	healthSvc := healthService.NewService(client)
	configSvc := configsvc.NewService(store, healthSvc, appLog)
	translateSvc := translate.NewService(client, client, appLog)
	triageSvc := triage.NewService(client, repo, publisher, appLog, triage.Options{
		Temperature: cfg.Triage.Temperature,
		RepairJSON:  cfg.Triage.RepairJSON,
	})
	imagingSvc := imaging.NewService(client, appLog)

	var authMiddleware *middleware.AuthMiddleware
	if cfg.JWT.Secret != "" {
		authMiddleware = middleware.NewAuthMiddleware(auth.NewHMACService(cfg.JWT.Secret))
	} else {
		appLog.Warn("jwt.secret is not set; the API is served without authentication")
	}

	sizeLimit := middleware.DefaultSizeLimitConfig()
	sizeLimit.MaxUploadSize = cfg.Server.MaxUploadMB << 20

	r := router.NewRouter(
		authMiddleware,
		prometheus.New(m),
		healthHandler.NewHandler(repo),
		router.RouterConfig{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(cfg.Security.AllowedOrigins...),
			SizeLimit:        sizeLimit,
			Release:          cfg.Log.JSON,
		},
		backends.NewHandler(configSvc),
		transcription.NewHandler(translateSvc, store),
		diagnosis.NewHandler(triageSvc, store),
		xray.NewHandler(imagingSvc, store),
		languageHandler.NewHandler(),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
