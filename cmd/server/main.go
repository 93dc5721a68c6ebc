package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/jobboard/internal/bootstrap"
	"anoa.com/jobboard/internal/config"
	searchService "anoa.com/jobboard/internal/modules/search/service"
	"anoa.com/jobboard/internal/server"
	"anoa.com/jobboard/pkg/database"
	"anoa.com/jobboard/pkg/logger"
	"anoa.com/jobboard/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Configure(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.PrettyLogs(),
		Output: os.Stdout,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = database.Params{
			Host:     cfg.DBHost,
			User:     cfg.DBUser,
			Password: cfg.DBPass,
			Name:     cfg.DBName,
			Port:     cfg.DBPort,
			SSLMode:  cfg.DBSSLMode,
		}.DSN()
	}

	db, err := database.Connect(dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	ctx := context.Background()
	if _, err := bootstrap.SeedAdminUser(ctx, db, bootstrap.AdminSeed{
		Email:      cfg.AdminEmail,
		Password:   cfg.AdminPassword,
		Name:       cfg.AdminName,
		BcryptCost: cfg.BcryptCost,
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed admin user")
	}

	deps := server.Deps{
		DB:     db,
		Config: cfg,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, rate limiting disabled")
			_ = rdb.Close()
		} else {
			deps.Redis = rdb
			defer rdb.Close()
		}
	}

	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		deps.JobIndex = searchService.NewMeiliJobIndex(meiliClient)
	} else {
		logger.Info().Msg("MEILISEARCH_HOST not set, job search uses the database")
	}

	if cfg.CloudinaryURL != "" {
		fileStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize cloudinary storage")
		}
		deps.Storage = fileStorage
	} else {
		logger.Info().Msg("CLOUDINARY_URL not set, resume uploads disabled")
	}

	srv := server.NewServer(deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("server exited with error")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
