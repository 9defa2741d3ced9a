package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	GatewayURL       string
	GatewayTimeoutMs int
	MaxAttempts      int
	RetryBaseDelayMs int

	MaxConcurrency int
	RateLimitMs    int
	ProductLimit   int

	ReferenceYear    int
	DefaultModelType string
	DefaultCurrency  string

	ListenAddr    string
	CSVOutputPath string
	LogLevel      string

	CatalogCache     bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		GatewayURL:       strings.TrimRight(getEnv("GATEWAY_URL", "http://localhost:8000"), "/"),
		GatewayTimeoutMs: getEnvInt("GATEWAY_TIMEOUT_MS", 10000),
		MaxAttempts:      getEnvInt("GATEWAY_MAX_ATTEMPTS", 2),
		RetryBaseDelayMs: getEnvInt("RETRY_BASE_DELAY_MS", 200),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),
		ProductLimit:   getEnvInt("PRODUCT_LIMIT", 50),

		ReferenceYear:    getEnvInt("REFERENCE_YEAR", time.Now().Year()),
		DefaultModelType: getEnv("DEFAULT_MODEL_TYPE", "random_forest"),
		DefaultCurrency:  strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),

		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/recommendations.csv"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		CatalogCache:     getEnvBool("CATALOG_CACHE", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "analytics"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "analytics123"),
		PostgresDB:       getEnv("POSTGRES_DB", "phone_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// GatewayTimeout is the per-request timeout for the prediction gateway.
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.GatewayTimeoutMs) * time.Millisecond
}

// RetryBaseDelay is the first backoff interval between gateway attempts.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
