package main

import (
	"context"
	"time"

	"anoa.com/jornalufc/internal/bootstrap"
	"anoa.com/jornalufc/internal/config"
	notification "anoa.com/jornalufc/internal/modules/notification/service"
	"anoa.com/jornalufc/internal/server"
	"anoa.com/jornalufc/pkg/database"
	"anoa.com/jornalufc/pkg/logger"
	"anoa.com/jornalufc/pkg/mailer"
	"anoa.com/jornalufc/pkg/password"
	"anoa.com/jornalufc/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(database.Config{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		Debug:    cfg.IsDevelopment(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	hasher := password.NewBcryptHasher(0)
	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(context.Background(), db, hasher); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed admin user")
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		redisClient = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, rate limiting disabled")
			redisClient.Close()
			redisClient = nil
		}
		cancel()
	} else {
		logger.Info().Msg("REDIS_URL not set, rate limiting disabled")
	}

	imageStorage, err := newStorage(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to initialize storage")
	}

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromName:  cfg.SMTPFromName,
		FromEmail: cfg.SMTPFrom,
		UseTLS:    cfg.SMTPUseTLS,
	}, logger.With("mailer"))

	dispatcher := notification.NewDispatcher(sender, logger.With("notification"), notification.Options{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
	})

	srv, err := server.NewServer(cfg, server.Deps{
		DB:         db,
		Redis:      redisClient,
		Storage:    imageStorage,
		Dispatcher: dispatcher,
		Hasher:     hasher,
	}, logger.With("http"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func newStorage(cfg *config.Config) (storage.ImageStorage, error) {
	if cfg.StorageDriver == "cloudinary" {
		return storage.NewCloudinaryStorage(storage.CloudinaryConfig{
			CloudName:    cfg.CloudinaryCloudName,
			APIKey:       cfg.CloudinaryAPIKey,
			APISecret:    cfg.CloudinaryAPISecret,
			UploadFolder: cfg.CloudinaryUploadFolder,
		})
	}
	return storage.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
}
