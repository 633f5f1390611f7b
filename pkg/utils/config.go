package utils

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Session  SessionConfig
	Schedule ScheduleConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string

	// RateLimit is requests per second per client IP. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// DatabaseConfig selects the store. Driver is "memory" or "postgres".
type DatabaseConfig struct {
	Driver   string
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type CatalogConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	MaxMovies int
	CacheTTL  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type SessionConfig struct {
	ExpiryHours int
}

type ScheduleConfig struct {
	// AutoWatchDelay of zero disables the auto-watch scheduler.
	AutoWatchDelay time.Duration
}

// LoadConfig reads .env when present and lets the environment override it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "movie-reservation")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("RATE_LIMIT", 20.0)
	v.SetDefault("RATE_BURST", 40)
	v.SetDefault("DB_DRIVER", "memory")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("CATALOG_BASE_URL", "https://movie.pequla.com/api")
	v.SetDefault("CATALOG_TIMEOUT", "10s")
	v.SetDefault("CATALOG_RATE_LIMIT", 5.0)
	v.SetDefault("CATALOG_BURST", 10)
	v.SetDefault("CATALOG_MAX_MOVIES", 15)
	v.SetDefault("CATALOG_CACHE_TTL", "10m")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AMQP_EXCHANGE", "movie-reservation.events")
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("AUTO_WATCH_DELAY", "0s")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),

			RateLimit: v.GetFloat64("RATE_LIMIT"),
			RateBurst: v.GetInt("RATE_BURST"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Catalog: CatalogConfig{
			BaseURL:   v.GetString("CATALOG_BASE_URL"),
			Timeout:   v.GetDuration("CATALOG_TIMEOUT"),
			RateLimit: v.GetFloat64("CATALOG_RATE_LIMIT"),
			Burst:     v.GetInt("CATALOG_BURST"),
			MaxMovies: v.GetInt("CATALOG_MAX_MOVIES"),
			CacheTTL:  v.GetDuration("CATALOG_CACHE_TTL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Schedule: ScheduleConfig{
			AutoWatchDelay: v.GetDuration("AUTO_WATCH_DELAY"),
		},
	}

	return config, nil
}
