package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Config struct {
	Server  ServerConfig
	App     AppConfig
	Storage StorageConfig
	Remote  RemoteConfig
	Chat    ChatConfig
	MQ      MQConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

// StorageConfig selects the key-value backend that holds hub state.
type StorageConfig struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string
	KeyPrefix     string
	MaxValueBytes int
}

// RemoteConfig points at the optional shared projects table.
// The source stays inert unless both BaseURL and APIKey are set.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type ChatConfig struct {
	OpenAIAPIKey  string
	Model         string
	BaseURL       string
	RatePerMinute int
	Burst         int
}

type MQConfig struct {
	URL      string
	Exchange string
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", getEnv("CHAT_PORT", "8080")),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", DriverMemory)),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			PostgresDSN:   getEnv("DB_DSN", ""),
			KeyPrefix:     getEnv("STORAGE_KEY_PREFIX", "dthub:"),
			MaxValueBytes: getEnvAsInt("STORAGE_MAX_VALUE_BYTES", 5*1024*1024),
		},
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(getEnv("REMOTE_BASE_URL", ""), "/"),
			APIKey:  getEnv("REMOTE_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("REMOTE_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Chat: ChatConfig{
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:       getEnv("OPENAI_BASE_URL", ""),
			RatePerMinute: getEnvAsInt("CHAT_RATE_PER_MINUTE", 30),
			Burst:         getEnvAsInt("CHAT_BURST", 5),
		},
		MQ: MQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "events"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis storage driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Storage.MaxValueBytes <= 0 {
		return fmt.Errorf("STORAGE_MAX_VALUE_BYTES must be positive")
	}

	return nil
}

// Configured reports whether the shared projects table can be reached.
func (c RemoteConfig) Configured() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	items := lo.FilterMap(strings.Split(valueStr, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
