package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds the application configuration
type Config struct {
	Port     int
	LogLevel string
	APIKey   string // API key for authentication

	// Storage
	StorageBackend string
	DBUser         string
	DBPassword     string
	DBHost         string
	DBPort         string
	DBName         string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// Catalog
	CardsPath string

	// Drop economy
	DailyFreeLimit  int
	FreeOpenWindow  time.Duration
	PUltraRare      float64
	PLegendaryFree  float64
	PLegendaryPaid  float64
	UltraRareCardID string

	// Claim relay
	RelayURL     string
	AssetBaseURL string
}

// BotConfig holds the delivery bot configuration
type BotConfig struct {
	Token        string
	ChannelID    string
	ListenAddr   string
	AssetBaseURL string
	LogLevel     string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		APIKey:          getEnv("API_KEY", ""),
		StorageBackend:  getEnv("STORAGE_BACKEND", BackendMemory),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBName:          getEnv("DB_NAME", "cardcase"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CardsPath:       getEnv("CARDS_PATH", "configs/cards.json"),
		UltraRareCardID: getEnv("ULTRA_RARE_CARD_ID", ""),
		RelayURL:        getEnv("RELAY_URL", ""),
		AssetBaseURL:    getEnv("ASSET_BASE_URL", ""),
		FreeOpenWindow:  24 * time.Hour,
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	cfg.RedisDB, err = getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg.DailyFreeLimit, err = getEnvInt("DAILY_FREE_LIMIT", 3)
	if err != nil {
		return nil, err
	}

	cfg.PUltraRare, err = getEnvFloat("P_ULTRA_RARE", 1.0/100000)
	if err != nil {
		return nil, err
	}
	cfg.PLegendaryFree, err = getEnvFloat("P_LEGENDARY_FREE", 1.0/10000)
	if err != nil {
		return nil, err
	}
	cfg.PLegendaryPaid, err = getEnvFloat("P_LEGENDARY_PAID", 1.0/200)
	if err != nil {
		return nil, err
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND value: %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// LoadBot loads the delivery bot configuration from environment variables
func LoadBot() (*BotConfig, error) {
	_ = godotenv.Load()

	cfg := &BotConfig{
		Token:        getEnv("BOT_TOKEN", ""),
		ChannelID:    getEnv("CHANNEL_ID", ""),
		ListenAddr:   getEnv("LISTEN_ADDR", ":8090"),
		AssetBaseURL: getEnv("ASSET_BASE_URL", ""),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable must be set")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("CHANNEL_ID environment variable must be set")
	}

	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}
