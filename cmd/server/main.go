package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/acme/accounts-api/internal/api"
	"github.com/acme/accounts-api/internal/core/service"
	"github.com/acme/accounts-api/internal/core/token"
	"github.com/acme/accounts-api/internal/infrastructure/config"
	mongodb "github.com/acme/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/acme/accounts-api/internal/infrastructure/db/redis"
	"github.com/acme/accounts-api/pkg/logger"
)

// @title           Accounts API
// @version         1.0
// @description     Role-based user management with stateless JWT authentication.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow)
	accounts := service.NewAccountService(repo, codec, throttle, log)
	users := service.NewUserService(repo, log)

	e := api.NewRouter(api.RouterConfig{
		Repo:     repo,
		Accounts: accounts,
		Users:    users,
		Codec:    codec,
		Mongo:    db,
		Redis:    rdb,
		Logger:   log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("accounts api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")
	if err := e.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
