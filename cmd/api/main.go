// Command api runs the BeSide HTTP API.
//
// @title                       BeSide API
// @version                     1.0
// @description                 Credentials, sessions, profiles and trips for the BeSide companion app.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beside-app/beside-api/internal/api"
	"github.com/beside-app/beside-api/internal/api/handler"
	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
	"github.com/beside-app/beside-api/internal/core/service"
	mongostore "github.com/beside-app/beside-api/internal/infrastructure/db/mongo"
	redisstore "github.com/beside-app/beside-api/internal/infrastructure/db/redis"
	"github.com/beside-app/beside-api/internal/infrastructure/http/handlers"
	"github.com/beside-app/beside-api/internal/infrastructure/mail"
	"github.com/beside-app/beside-api/internal/infrastructure/media"
	"github.com/beside-app/beside-api/internal/infrastructure/queue"
	"github.com/beside-app/beside-api/internal/infrastructure/security"
	"github.com/beside-app/beside-api/internal/pkg/config"
	"github.com/beside-app/beside-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "beside-api",
		Env:     cfg.Env,
	})

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	mediaStore, err := media.NewStore(media.Config{
		Endpoint:  cfg.Media.Endpoint,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		UseSSL:    cfg.Media.UseSSL,
		Bucket:    cfg.Media.Bucket,
		PublicURL: cfg.Media.PublicURL,
		MaxBytes:  cfg.Media.MaxBytes,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create media store")
	}
	if err := mediaStore.EnsureBucket(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare media bucket")
	}

	// --- Repositories ---
	users := mongostore.NewUserRepository(db)
	registry := mongostore.NewRegistryRepository(db)
	trips := mongostore.NewTripRepository(db)
	tripRequests := mongostore.NewTripRequestRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, registry, trips, tripRequests); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Security ---
	hasher, err := security.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create password hasher")
	}
	tokens, err := security.NewTokenCodec(cfg.Auth.JWTSecret, security.WithIssuer(cfg.Auth.JWTIssuer))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token codec")
	}

	// --- Mail ---
	var mailer ports.Mailer = mail.NewLogMailer(logger.Component("mail"), !cfg.IsProduction())
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	dispatcher := queue.NewDispatcher(cfg.SMTP.Workers, mailer, logger.Component("mail-queue"))
	dispatcher.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(users, hasher, tokens, cfg.Auth.TokenTTL, logger.Component("auth"), cfg.Auth.AdminUsernames...)
	resetService := service.NewPasswordResetService(users, redisstore.NewOTPStore(rdb), hasher, dispatcher, cfg.Reset.OTPTTL, logger.Component("reset"))
	profileService := service.NewProfileService(users, mediaStore, logger.Component("profile"))
	verificationService := service.NewVerificationService(users, registry, logger.Component("verification"))
	tripService := service.NewTripService(trips, tripRequests, users, logger.Component("trips"))

	e := api.NewRouter(api.Deps{
		Auth:         authService,
		Reset:        resetService,
		Profile:      profileService,
		Verification: verificationService,
		Trips:        tripService,
		Guard:        service.NewAccessGuard(tokens, users),
		AdminPolicy:  service.NewPolicy(domain.RoleAdmin),
		Cookie:       handler.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		CORSOrigins:  cfg.CORS.AllowOrigins,
		Readiness: []handlers.Check{
			handlers.MongoCheck(db),
			handlers.RedisCheck(rdb),
			{Name: "minio", Probe: mediaStore.Ping},
		},
		Logger: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
