package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fJavierPC/user-auth-microservice/config"
	"github.com/fJavierPC/user-auth-microservice/db"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/domain"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/handler"
	repo "github.com/fJavierPC/user-auth-microservice/internal/auth/repository/postgres"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/repository/redisstore"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/service"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer dbPool.Close()

	userRepo := repo.NewPostgresRepository(dbPool)

	// Blacklist lives in Postgres unless a Redis URL is configured.
	var blacklist domain.TokenBlacklist = repo.NewPostgresBlacklist(dbPool)
	if cfg.RedisURL != "" {
		redisClient, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to redis")
		}
		defer redisClient.Close()
		blacklist = redisstore.NewRedisBlacklist(redisClient, 0)
		log.Info().Msg("using redis token blacklist")
	}

	tokenService := service.NewTokenService(service.TokenConfig{
		Secret:        cfg.TokenSecret,
		AccessExpiry:  time.Duration(cfg.AccessExpiryMin) * time.Minute,
		RefreshExpiry: time.Duration(cfg.RefreshExpiryMin) * time.Minute,
	}, blacklist)
	userService := service.NewUserService(userRepo, tokenService, blacklist, log)
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting auth service")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
