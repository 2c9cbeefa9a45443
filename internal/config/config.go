package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	HTTPPort           string
	GRPCPort           string
	CatalogDBPath      string
	MigrationsPath     string
	RedisAddr          string
	RedisPassword      string
	KafkaBrokers       []string
	OrdersTopic        string
	SessionSecret      string
	SessionTTL         time.Duration
	PaymentLatency     time.Duration
	PaymentDeclines    bool
	SubmitTimeout      time.Duration
	SubmitMaxAttempts  int
	SubmitBackoff      time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	LogJSON            bool
}

// Load reads the optional .env files, then the process environment.
// Variables already present in the environment win over .env values.
func Load(envFiles ...string) *Config {
	for _, f := range envFiles {
		_ = godotenv.Load(f) // missing files are fine
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "dev"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		GRPCPort:           getEnv("GRPC_PORT", "50060"),
		CatalogDBPath:      getEnv("CATALOG_DB_PATH", "file:catalog.db"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "./internal/catalog/migrations"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		OrdersTopic:        getEnv("ORDERS_TOPIC", "orders-placed"),
		SessionSecret:      getEnv("SESSION_SECRET", "dev-session-secret"),
		SessionTTL:         getDuration("SESSION_TTL", 30*time.Minute),
		PaymentLatency:     getDuration("PAYMENT_LATENCY", 2*time.Second),
		PaymentDeclines:    getBool("PAYMENT_DECLINES", false),
		SubmitTimeout:      getDuration("SUBMIT_TIMEOUT", 10*time.Second),
		SubmitMaxAttempts:  getInt("SUBMIT_MAX_ATTEMPTS", 3),
		SubmitBackoff:      getDuration("SUBMIT_BACKOFF", 500*time.Millisecond),
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
		LogJSON:            getBool("LOG_JSON", false),
	}
	cfg.RequestTimeout = getDuration("REQUEST_TIMEOUT", submitBudget(cfg)+5*time.Second)
	return cfg
}

// submitBudget is the longest an order submission can take: every attempt
// timing out plus the doubling waits between attempts.
func submitBudget(cfg *Config) time.Duration {
	attempts := cfg.SubmitMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	total := time.Duration(attempts) * cfg.SubmitTimeout
	wait := cfg.SubmitBackoff
	for i := 1; i < attempts; i++ {
		total += wait
		wait *= 2
	}
	return total
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE":
		return true
	case "0", "false", "FALSE":
		return false
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
