package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Environment string   `json:"environment"`
	Port        int      `json:"port"`
	Host        string   `json:"host"`
	CORSOrigins []string `json:"cors_origins"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`
	DBPath     string `json:"db_path"`
	SeedDemo   bool   `json:"seed_demo"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret       string `json:"jwt_secret"`
	JWTTTLHours     int    `json:"jwt_ttl_hours"`
	WebClientID     string `json:"web_client_id"`
	WebClientSecret string `json:"web_client_secret"`

	// Infrastructure, both optional
	RedisURL        string `json:"redis_url"`
	CatalogCacheTTL int    `json:"catalog_cache_ttl"`
	RabbitMQURL     string `json:"rabbitmq_url"`
	EventsExchange  string `json:"events_exchange"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, DBDriver: %s, DBHost: %s, DBPort: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, LogLevel: %s, JWTSecret: [REDACTED], JWTTTLHours: %d, WebClientID: %s, WebClientSecret: [REDACTED], RedisURL: %s, RabbitMQURL: %s, EventsExchange: %s}",
		c.Environment, c.Port, c.Host, c.DBDriver, c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPath, c.LogLevel,
		c.JWTTTLHours, c.WebClientID, maskURL(c.RedisURL), maskURL(c.RabbitMQURL), c.EventsExchange)
}

// maskURL masks the password in a connection URL
func maskURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), "REDACTED")
		}
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if a numeric variable cannot be parsed or an infrastructure URL is malformed
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	ttlHours, err := strconv.Atoi(GetEnvWithDefault("JWT_TTL_HOURS", "24"))
	if err != nil || ttlHours <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL_HOURS: must be a positive integer")
	}

	cacheTTL, err := strconv.Atoi(GetEnvWithDefault("CATALOG_CACHE_TTL_SECONDS", "30"))
	if err != nil || cacheTTL < 0 {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL_SECONDS: must be a non-negative integer")
	}

	for _, key := range []string{"REDIS_URL", "RABBITMQ_URL"} {
		if value := os.Getenv(key); value != "" {
			if _, err := url.ParseRequestURI(value); err != nil {
				return nil, fmt.Errorf("invalid %s format: %w", key, err)
			}
		}
	}

	config := &Config{
		Environment:     GetEnvWithDefault("APP_ENV", "development"),
		Port:            port,
		Host:            GetEnvWithDefault("APP_HOST", "localhost"),
		CORSOrigins:     splitCSV(GetEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		DBDriver:        strings.ToLower(GetEnvWithDefault("DB_DRIVER", "sqlite")),
		DBHost:          GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:          GetEnvWithDefault("DB_PORT", "5432"),
		DBName:          GetEnvWithDefault("DB_NAME", "food_delivery"),
		DBUser:          GetEnvWithDefault("DB_USER", "user"),
		DBPassword:      GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:       GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:          GetEnvWithDefault("DB_PATH", "food_delivery.sqlite"),
		SeedDemo:        GetEnvAsType("SEED_DEMO_DATA", false),
		LogLevel:        GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:       GetEnvWithDefault("JWT_SECRET", "secret"),
		JWTTTLHours:     ttlHours,
		WebClientID:     GetEnvWithDefault("OAUTH_WEB_CLIENT_ID", "web"),
		WebClientSecret: GetEnvWithDefault("OAUTH_WEB_CLIENT_SECRET", "web-secret"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CatalogCacheTTL: cacheTTL,
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		EventsExchange:  GetEnvWithDefault("EVENTS_EXCHANGE", "food_delivery.events"),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
