package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/encore-live/backstage-api/internal/api"
	"github.com/encore-live/backstage-api/internal/core/domain"
	"github.com/encore-live/backstage-api/internal/core/ports"
	"github.com/encore-live/backstage-api/internal/core/service"
	"github.com/encore-live/backstage-api/internal/infrastructure/config"
	mongodb "github.com/encore-live/backstage-api/internal/infrastructure/db/mongo"
	redisdb "github.com/encore-live/backstage-api/internal/infrastructure/db/redis"
	"github.com/encore-live/backstage-api/internal/infrastructure/mail"
	"github.com/encore-live/backstage-api/internal/infrastructure/queue"
	"github.com/encore-live/backstage-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.APIKey == "" || cfg.JWT.Secret == "" {
		log.Fatal().Msg("API_KEY and JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	directory := mongodb.NewUserDirectory(db)
	if err := directory.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index setup failed")
	}

	// --- Redis (optional: login throttling degrades to a no-op) ---
	var limiter ports.AttemptLimiter
	rdb, err := connectRedis(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
	} else if rdb != nil {
		defer func() { _ = rdb.Close() }()
		limiter = redisdb.NewAttemptLimiter(rdb, 0, 0)
	}

	// --- Notifications ---
	var notifier ports.Notifier
	if cfg.Mail.BaseURL != "" {
		notifier = mail.NewMailer(cfg.Mail.BaseURL, cfg.Mail.APIKey, cfg.Mail.From)
	} else {
		notifier = mail.NewNopNotifier(log)
	}
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, notifier, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	hasher := service.NewPasswordHasher(bcrypt.DefaultCost)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := service.NewAuthService(directory, hasher, tokens, dispatcher, limiter, log)
	accountService := service.NewAccountService(directory, hasher, log)

	if err := seedAdmin(ctx, cfg, directory, hasher); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}

	e := api.NewRouter(api.Deps{
		Directory:      directory,
		AuthService:    authService,
		AccountService: accountService,
		Tokens:         tokens,
		APIKey:         cfg.APIKey,
		Mongo:          db,
		Redis:          rdb,
		Log:            log,
	})

	// Best-effort: the dispatcher logs delivery failures.
	_ = dispatcher.SendStartupNotice(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped cleanly")
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	return redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}

// seedAdmin creates the initial admin account if one is configured and the
// email is not yet registered.
func seedAdmin(ctx context.Context, cfg *config.Config, directory ports.UserDirectory, hasher *service.PasswordHasher) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	_, err := directory.FindByEmail(ctx, cfg.Admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	hash, err := hasher.Hash(cfg.Admin.Password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = directory.Create(ctx, &domain.Account{
		Username:     cfg.Admin.Username,
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return err
}
