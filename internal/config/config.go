package config

import (
	"fmt"
	"strings"

	apperrors "burst-backend/internal/errors"

	"github.com/spf13/viper"
)

const defaultSecretKey = "insecure-dev-key-change-in-production"

// Config holds all configuration for the application
type Config struct {
	Environment  string   `mapstructure:"ENVIRONMENT"`
	Port         string   `mapstructure:"PORT"`
	LogLevel     string   `mapstructure:"LOG_LEVEL"`
	Debug        bool     `mapstructure:"DEBUG"`
	AllowedHosts []string `mapstructure:"ALLOWED_HOSTS"`

	// SecretKey signs API tokens and web session cookies
	SecretKey string `mapstructure:"SECRET_KEY"`

	// Database configuration
	DatabaseEngine   string `mapstructure:"DB_ENGINE"`
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	DatabaseHost     string `mapstructure:"DB_HOST"`
	DatabasePort     string `mapstructure:"DB_PORT"`
	DatabaseUser     string `mapstructure:"DB_USER"`
	DatabasePassword string `mapstructure:"DB_PASSWORD"`
	DatabaseName     string `mapstructure:"DB_NAME"`
	DatabaseSSLMode  string `mapstructure:"DB_SSL_MODE"`

	// Email configuration. An empty EmailHost logs outgoing mail instead of sending it.
	EmailHost         string  `mapstructure:"EMAIL_HOST"`
	EmailPort         int     `mapstructure:"EMAIL_PORT"`
	EmailHostUser     string  `mapstructure:"EMAIL_HOST_USER"`
	EmailHostPassword string  `mapstructure:"EMAIL_HOST_PASSWORD"`
	EmailUseTLS       bool    `mapstructure:"EMAIL_USE_TLS"`
	DefaultFromEmail  string  `mapstructure:"DEFAULT_FROM_EMAIL"`
	EmailRatePerSec   float64 `mapstructure:"EMAIL_RATE_PER_SEC"`

	// Absolute links in emails and feeds
	SiteURL      string `mapstructure:"SITE_URL"`
	HTTPProtocol string `mapstructure:"ACCOUNT_DEFAULT_HTTP_PROTOCOL"`

	// Notification delivery: "inline" sends from the API process, "redis" queues for cmd/worker
	NotifyBackend      string `mapstructure:"NOTIFY_BACKEND"`
	NotifyWorkers      int    `mapstructure:"NOTIFY_WORKERS"`
	NotifyTimeoutSec   int    `mapstructure:"NOTIFY_TIMEOUT_SEC"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`
	RedisEmailQueueKey string `mapstructure:"REDIS_EMAIL_QUEUE"`
	CleanupSchedule    string `mapstructure:"CLEANUP_SCHEDULE"`

	// Media storage
	MediaBackend       string `mapstructure:"MEDIA_BACKEND"`
	MediaRoot          string `mapstructure:"MEDIA_ROOT"`
	MediaURL           string `mapstructure:"MEDIA_URL"`
	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSS3Bucket        string `mapstructure:"AWS_S3_BUCKET"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	AWSS3Endpoint      string `mapstructure:"AWS_S3_ENDPOINT"`

	// CORS configuration
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.AllowedHosts = splitList(config.AllowedHosts)
	config.AllowedOrigins = splitList(config.AllowedOrigins)

	// Build database URL if not provided
	if config.DatabaseURL == "" {
		config.DatabaseURL = buildDatabaseURL(&config)
	}

	// Validate required fields
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("ALLOWED_HOSTS", []string{"localhost", "127.0.0.1"})
	viper.SetDefault("SECRET_KEY", defaultSecretKey)

	// Database defaults
	viper.SetDefault("DB_ENGINE", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "burst")
	viper.SetDefault("DB_SSL_MODE", "disable")

	// Email defaults
	viper.SetDefault("EMAIL_HOST", "")
	viper.SetDefault("EMAIL_PORT", 587)
	viper.SetDefault("EMAIL_USE_TLS", true)
	viper.SetDefault("DEFAULT_FROM_EMAIL", "noreply@burst.local")
	viper.SetDefault("EMAIL_RATE_PER_SEC", 5.0)

	viper.SetDefault("SITE_URL", "localhost:8000")
	viper.SetDefault("ACCOUNT_DEFAULT_HTTP_PROTOCOL", "http")

	// Notification defaults
	viper.SetDefault("NOTIFY_BACKEND", "inline")
	viper.SetDefault("NOTIFY_WORKERS", 4)
	viper.SetDefault("NOTIFY_TIMEOUT_SEC", 30)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_EMAIL_QUEUE", "burst:email")
	viper.SetDefault("CLEANUP_SCHEDULE", "0 * * * *")

	// Media defaults
	viper.SetDefault("MEDIA_BACKEND", "local")
	viper.SetDefault("MEDIA_ROOT", "media")
	viper.SetDefault("MEDIA_URL", "/media/")
	viper.SetDefault("AWS_REGION", "us-east-1")

	// CORS defaults
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8000"})
}

func buildDatabaseURL(config *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseName,
		config.DatabaseSSLMode,
	)
}

// splitList accepts both YAML lists and comma separated environment values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func validate(config *Config) error {
	if config.Environment == "production" {
		if config.SecretKey == defaultSecretKey || config.SecretKey == "" {
			return apperrors.ErrSecretKeyMissing
		}
	}

	if config.DatabaseEngine != "postgres" {
		return fmt.Errorf("unsupported DB_ENGINE %q", config.DatabaseEngine)
	}

	if config.DatabaseName == "" {
		return fmt.Errorf("database name is required")
	}

	switch config.MediaBackend {
	case "local":
	case "s3":
		if config.AWSS3Bucket == "" {
			return apperrors.ErrS3BucketMissing
		}
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q", config.MediaBackend)
	}

	switch config.NotifyBackend {
	case "inline", "redis":
	default:
		return fmt.Errorf("unsupported NOTIFY_BACKEND %q", config.NotifyBackend)
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AbsoluteURL joins the configured protocol and site with a path
func (c *Config) AbsoluteURL(path string) string {
	site := strings.TrimRight(c.SiteURL, "/")
	if !strings.HasPrefix(site, "http://") && !strings.HasPrefix(site, "https://") {
		site = c.HTTPProtocol + "://" + site
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return site + path
}
