package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// CasdoorConfig holds settings for the Casdoor identity provider
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// AlertConfig holds the attendance alerting policy. Values are loaded
// once and passed to the services explicitly so they stay testable.
type AlertConfig struct {
	Threshold    float64 // percentage below which alerts fire
	CooldownDays int     // minimum days between repeat alerts per (student, course)
	LateWeight   float64 // fraction of a session a "late" counts for
}

// MailConfig holds email delivery settings. An empty APIKey switches
// the mailer to console output.
type MailConfig struct {
	APIKey    string
	FromName  string
	FromEmail string
}

// KafkaConfig holds event bus settings. Empty brokers disable publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	Casdoor CasdoorConfig
	Alert   AlertConfig
	Mail    MailConfig
	Kafka   KafkaConfig
}

// LoadConfig reads configuration from the environment, with .env as a
// development convenience.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERT"),
			Organization: os.Getenv("CASDOOR_ORGANIZATION"),
			Application:  os.Getenv("CASDOOR_APPLICATION"),
		},
		Alert: AlertConfig{
			Threshold:    getEnvFloat("ATTENDANCE_THRESHOLD", 75),
			CooldownDays: getEnvInt("ALERT_COOLDOWN_DAYS", 15),
			LateWeight:   getEnvFloat("ATTENDANCE_LATE_WEIGHT", 0.5),
		},
		Mail: MailConfig{
			APIKey:    os.Getenv("SENDGRID_API_KEY"),
			FromName:  getEnv("MAIL_FROM_NAME", "Attendance Tracker"),
			FromEmail: getEnv("MAIL_FROM_EMAIL", "noreply@example.edu"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_NOTIFICATION_TOPIC", "attendance.notifications"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Alert.Threshold < 0 || cfg.Alert.Threshold > 100 {
		return nil, fmt.Errorf("ATTENDANCE_THRESHOLD must be within [0,100], got %v", cfg.Alert.Threshold)
	}
	if cfg.Alert.LateWeight < 0 || cfg.Alert.LateWeight > 1 {
		return nil, fmt.Errorf("ATTENDANCE_LATE_WEIGHT must be within [0,1], got %v", cfg.Alert.LateWeight)
	}
	if cfg.Alert.CooldownDays < 0 {
		return nil, fmt.Errorf("ALERT_COOLDOWN_DAYS must not be negative, got %d", cfg.Alert.CooldownDays)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
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
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
