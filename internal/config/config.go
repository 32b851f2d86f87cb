// Package config loads service settings from the environment and an optional file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort     string
	DBDriver    string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration

	MediaBackend  string
	MediaRoot     string
	MediaURL      string
	ImageMaxWidth int
	S3            S3Config

	RabbitMQURL   string
	EventsConsume bool
	SentryDSN     string
	CORSOrigins   string
	PageSize      int
	LogLevel      string
	DataDir       string
}

// S3Config addresses an S3-compatible bucket.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=foodgram port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "720h")
	v.SetDefault("MEDIA_BACKEND", "local")
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("MEDIA_URL", "http://localhost:8080/media/")
	v.SetDefault("IMAGE_MAX_WIDTH", 1280)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BASE_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_CONSUME", false)
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("PAGE_SIZE", 6)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_DIR", "data")
}

// Load reads defaults, then CONFIG_FILE when set, then the environment.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:       v.GetString("APP_PORT"),
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
		MediaBackend:  strings.ToLower(v.GetString("MEDIA_BACKEND")),
		MediaRoot:     v.GetString("MEDIA_ROOT"),
		MediaURL:      v.GetString("MEDIA_URL"),
		ImageMaxWidth: v.GetInt("IMAGE_MAX_WIDTH"),
		S3: S3Config{
			Bucket:       v.GetString("S3_BUCKET"),
			Region:       v.GetString("S3_REGION"),
			BaseEndpoint: v.GetString("S3_BASE_ENDPOINT"),
			AccessKey:    v.GetString("S3_ACCESS_KEY"),
			SecretKey:    v.GetString("S3_SECRET_KEY"),
		},
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		EventsConsume: v.GetBool("EVENTS_CONSUME"),
		SentryDSN:     v.GetString("SENTRY_DSN"),
		CORSOrigins:   v.GetString("CORS_ORIGINS"),
		PageSize:      v.GetInt("PAGE_SIZE"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		DataDir:       v.GetString("DATA_DIR"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	switch c.MediaBackend {
	case "local":
	case "s3":
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 media backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MEDIA_BACKEND %q", c.MediaBackend))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, errors.New("PAGE_SIZE must be positive"))
	}
	return errors.Join(errs...)
}
