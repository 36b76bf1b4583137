package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the application reads from the environment.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers           []string
	KafkaConsumerGroup     string
	KafkaOrderChangedTopic string

	BackendBaseURL   string
	BackendAuthToken string
	BackendTimeout   time.Duration

	EscrowReleaseWindow time.Duration
	DeliveryFee         int64
	ServiceFee          int64
	GroupingPolicy      string
	RatingFloor         float64
	AvgSpeedKmPerH      float64
	SyncReplayLimit     int

	DispatchInterval     time.Duration
	EscrowSweepInterval  time.Duration
	SyncInterval         time.Duration
	LocationPollInterval time.Duration
}

// LoadConfig reads the configuration from environment variables, applying
// defaults for everything optional. Only the database settings are required.
func LoadConfig() Config {
	return Config{
		HTTPPort: envOrDefault("HTTP_PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		KafkaBrokers:           splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaConsumerGroup:     envOrDefault("KAFKA_CONSUMER_GROUP", "marketplace"),
		KafkaOrderChangedTopic: envOrDefault("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),

		BackendBaseURL:   os.Getenv("BACKEND_BASE_URL"),
		BackendAuthToken: os.Getenv("BACKEND_AUTH_TOKEN"),
		BackendTimeout:   envDuration("BACKEND_TIMEOUT", 60*time.Second),

		EscrowReleaseWindow: envDuration("ESCROW_RELEASE_WINDOW", 72*time.Hour),
		DeliveryFee:         envInt64("DELIVERY_FEE", 150),
		ServiceFee:          envInt64("SERVICE_FEE", 50),
		GroupingPolicy:      envOrDefault("CHECKOUT_GROUPING", "per_merchant"),
		RatingFloor:         envFloat("DISPATCH_RATING_FLOOR", 4.5),
		AvgSpeedKmPerH:      envFloat("DISPATCH_AVG_SPEED_KMH", 30),
		SyncReplayLimit:     int(envInt64("SYNC_REPLAY_LIMIT", 100)),

		DispatchInterval:     envDuration("DISPATCH_INTERVAL", 5*time.Second),
		EscrowSweepInterval:  envDuration("ESCROW_SWEEP_INTERVAL", time.Minute),
		SyncInterval:         envDuration("SYNC_INTERVAL", 30*time.Second),
		LocationPollInterval: envDuration("LOCATION_POLL_INTERVAL", 10*time.Second),
	}
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
