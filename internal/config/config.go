package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	BundlePath string
	PolicyPath string

	DBEnabled   bool
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool

	QuoteCacheTTL  time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration from the environment. Variables found in
// a .env file in the working directory fill in any that are unset.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BundlePath: getEnv("MODEL_BUNDLE_PATH", "artifacts/bundle.json"),
		PolicyPath: getEnv("POLICY_PATH", ""),

		DBEnabled:   getBool("DB_ENABLED", false),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "pyme"),
		DBPassword:  getEnv("DB_PASSWORD", "pyme_secret"),
		DBName:      getEnv("DB_NAME", "pyme"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getBool("AUTO_MIGRATE", false),

		QuoteCacheTTL:  getDuration("QUOTE_CACHE_TTL", 5*time.Minute),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 40),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		log.Warn().Str("key", key).Msg("invalid boolean, using default")
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		log.Warn().Str("key", key).Msg("invalid integer, using default")
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64)), 64)
	if err != nil {
		log.Warn().Str("key", key).Msg("invalid number, using default")
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		log.Warn().Str("key", key).Msg("invalid duration, using default")
		return fallback
	}
	return v
}
