package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	EventStore EventStoreConfig
	Auth       AuthConfig
	Chat       ChatConfig
	Storage    StorageConfig
	Clinic     ClinicConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// EventStoreConfig holds configuration for the EventStoreDB event bus.
type EventStoreConfig struct {
	Host     string
	Port     int
	Insecure bool
	Username string
	Password string
	Enabled  bool
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Symmetric key, rotated via env.
	JWTSecret string
	// TokenTTLHours is the lifetime of an issued session token.
	TokenTTLHours int
}

// ChatConfig holds configuration for the hosted text-generation API.
type ChatConfig struct {
	// APIKey for the Gemini API. Chat returns 503 when empty.
	APIKey string
	// Model name. The free-tier flash-lite model by default.
	Model string
	// BaseURL of the generativelanguage endpoint, overridable for tests.
	BaseURL string

	Temperature     float64
	MaxOutputTokens int
}

// StorageConfig holds configuration for uploaded result files.
type StorageConfig struct {
	// RootDir is the directory files are written under, one subdir per user.
	RootDir string
	// MaxUploadBytes caps a single upload.
	MaxUploadBytes int64
}

// ClinicConfig holds configuration for the legacy clinic lab-result importer.
type ClinicConfig struct {
	Enabled             bool
	Host                string
	Port                int
	User                string
	Password            string
	Database            string
	SSLMode             string
	PollIntervalSeconds int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "health"),
			Password: getEnv("DB_PASSWORD", "health"),
			Database: getEnv("DB_NAME", "health"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		EventStore: EventStoreConfig{
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
			Enabled:  getEnvBool("EVENTSTORE_ENABLED", true),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			TokenTTLHours: getEnvInt("AUTH_TOKEN_TTL_HOURS", 12),
		},
		Chat: ChatConfig{
			APIKey:          getEnv("GOOGLE_API_KEY", ""),
			Model:           getEnv("CHAT_MODEL", "gemini-2.5-flash-lite"),
			BaseURL:         getEnv("CHAT_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Temperature:     getEnvFloat("CHAT_TEMPERATURE", 0.7),
			MaxOutputTokens: getEnvInt("CHAT_MAX_OUTPUT_TOKENS", 2048),
		},
		Storage: StorageConfig{
			RootDir:        getEnv("STORAGE_ROOT", "./data/results"),
			MaxUploadBytes: int64(getEnvInt("STORAGE_MAX_UPLOAD_MB", 10)) * 1024 * 1024,
		},
		Clinic: ClinicConfig{
			Enabled:             getEnvBool("CLINIC_IMPORT_ENABLED", false),
			Host:                getEnv("CLINIC_DB_HOST", "localhost"),
			Port:                getEnvInt("CLINIC_DB_PORT", 1433),
			User:                getEnv("CLINIC_DB_USER", ""),
			Password:            getEnv("CLINIC_DB_PASSWORD", ""),
			Database:            getEnv("CLINIC_DB_NAME", "clinic"),
			SSLMode:             getEnv("CLINIC_DB_SSLMODE", "disable"),
			PollIntervalSeconds: getEnvInt("CLINIC_POLL_INTERVAL_SECONDS", 300),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
