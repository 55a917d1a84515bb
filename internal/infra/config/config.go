package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration loaded from environment
// variables. Load is the only place in the codebase that reads the
// environment.
type Config struct {
	Env                string
	HTTPAddr           string
	StorageMode        string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	IdempotencyTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	PaymentTTL         time.Duration
	ExpirySweep        time.Duration
	SessionTTL         time.Duration
	S3Endpoint         string
	S3PublicEndpoint   string
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3UseSSL           bool
	SeedStaffEmail     string
	SeedStaffPassword  string
}

// Load parses configuration from the current environment. StorageMode
// "memory" runs fully in-process and needs neither Mongo nor Kafka.
func Load() (Config, error) {
	cfg := Config{
		Env:               getEnv("APP_ENV", "dev"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		StorageMode:       strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDB:           getEnv("MONGO_DB", "roamvan"),
		KafkaTopicPrefix:  getEnv("KAFKA_TOPIC_PREFIX", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3PublicEndpoint:  getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:       getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:          getEnv("S3_BUCKET", "roamvan-photos"),
		SeedStaffEmail:    getEnv("SEED_STAFF_EMAIL", ""),
		SeedStaffPassword: os.Getenv("SEED_STAFF_PASSWORD"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	idempotencyTTL, err := parseDurationEnv("IDEMP_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = idempotencyTTL

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	paymentTTL, err := parseDurationEnv("PAYMENT_TTL", 72*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.PaymentTTL = paymentTTL

	sweep, err := parseDurationEnv("EXPIRY_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.ExpirySweep = sweep

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	useSSL, err := parseBoolEnv("S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg.S3UseSSL = useSSL
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	switch cfg.StorageMode {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, fmt.Errorf("KAFKA_BROKERS is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
