package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration (rate-limit shared store)
	Redis RedisConfig

	// Moderation policy settings
	Moderation ModerationConfig

	// Sensitive-word filter settings
	Filter FilterConfig

	// Rate-limit settings
	RateLimit RateLimitConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig holds the shared counter store settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// ModerationConfig holds comment policy settings
type ModerationConfig struct {
	MaxNestingLevel   int
	EditWindow        time.Duration
	DeletePlaceholder string
	BlacklistSweep    string // cron spec for the expired-blacklist sweep
}

// FilterConfig holds sensitive-word engine settings
type FilterConfig struct {
	CacheTTL    time.Duration
	LoadTimeout time.Duration
}

// RateLimitConfig holds write-path admission settings
type RateLimitConfig struct {
	CommentLimit  int
	CommentWindow time.Duration
	LikeLimit     int
	LikeWindow    time.Duration
	KeyPrefix     string
	IPRate        float64 // per-client-IP token bucket, requests per second
	IPBurst       int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "blog_comments"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			Timeout:  getDurationEnv("REDIS_TIMEOUT", 200*time.Millisecond),
		},
		Moderation: ModerationConfig{
			MaxNestingLevel:   getIntEnv("COMMENT_MAX_NESTING", 5),
			EditWindow:        getDurationEnv("COMMENT_EDIT_WINDOW", 30*time.Minute),
			DeletePlaceholder: getEnv("COMMENT_DELETE_PLACEHOLDER", "This comment has been deleted"),
			BlacklistSweep:    getEnv("BLACKLIST_SWEEP_SPEC", "@hourly"),
		},
		Filter: FilterConfig{
			CacheTTL:    getDurationEnv("FILTER_CACHE_TTL", 5*time.Minute),
			LoadTimeout: getDurationEnv("FILTER_LOAD_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			CommentLimit:  getIntEnv("RATE_COMMENT_LIMIT", 10),
			CommentWindow: getDurationEnv("RATE_COMMENT_WINDOW", time.Minute),
			LikeLimit:     getIntEnv("RATE_LIKE_LIMIT", 60),
			LikeWindow:    getDurationEnv("RATE_LIKE_WINDOW", time.Minute),
			KeyPrefix:     getEnv("RATE_KEY_PREFIX", "rate_limit"),
			IPRate:        getFloatEnv("RATE_IP_RPS", 20),
			IPBurst:       getIntEnv("RATE_IP_BURST", 40),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Moderation.MaxNestingLevel < 1 {
		return fmt.Errorf("COMMENT_MAX_NESTING must be at least 1")
	}
	if c.RateLimit.CommentLimit < 1 || c.RateLimit.LikeLimit < 1 {
		return fmt.Errorf("rate limits must be at least 1")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
