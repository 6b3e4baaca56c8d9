package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string   `env:"APP_ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	PublicBaseURL  string   `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASS"`
	DBName      string `env:"DB_NAME" envDefault:"jornalufc"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	RedisURL    string `env:"REDIS_URL"`

	JWTSecret      string        `env:"JWT_SECRET"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	ResetTokenTTL  time.Duration `env:"RESET_TOKEN_TTL" envDefault:"10m"`

	// ProfessorEmailDomain is applied by applyDefaults: an explicitly empty
	// value disables the institutional e-mail rule.
	ProfessorEmailDomain string `env:"PROFESSOR_EMAIL_DOMAIN"`

	StorageDriver          string `env:"STORAGE_DRIVER" envDefault:"local"`
	UploadDir              string `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadBaseURL          string `env:"UPLOAD_BASE_URL" envDefault:"/uploads"`
	CloudinaryUploadFolder string `env:"CLOUDINARY_UPLOAD_FOLDER" envDefault:"jornal_ufc"`
	CloudinaryCloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey       string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret    string `env:"CLOUDINARY_API_SECRET"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@jornal.ufc.br"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"Jornal UFC"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	NotifyWorkers   int `env:"NOTIFY_WORKERS" envDefault:"2"`
	NotifyQueueSize int `env:"NOTIFY_QUEUE_SIZE" envDefault:"100"`

	RateLimitLogin   time.Duration `env:"RATE_LIMIT_LOGIN" envDefault:"2s"`
	RateLimitArticle time.Duration `env:"RATE_LIMIT_ARTICLE" envDefault:"1m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const defaultProfessorEmailDomain = "ufc.br"

func (c *Config) applyDefaults() {
	if _, ok := os.LookupEnv("PROFESSOR_EMAIL_DOMAIN"); !ok {
		c.ProfessorEmailDomain = defaultProfessorEmailDomain
	}
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWTSecret = "dev-secret-change-me"
	}
	switch c.StorageDriver {
	case "local", "cloudinary":
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1, got %d", c.NotifyWorkers)
	}
	if c.NotifyQueueSize < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be at least 1, got %d", c.NotifyQueueSize)
	}
	return nil
}
