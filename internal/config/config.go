package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	APIKey      string // API key for authentication

	// Connection pool tuning
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Inventory rules
	InventoryMaxItems            int
	InventoryStorageUnitMaxItems int
	InventoryItemAllowEdit       bool
	CraftHideID                  []int
	CraftHideCategory            []string
	CraftHideType                []string
	CraftHideModel               []string

	// Read cache
	InventoryCacheSize int
	InventoryCacheTTL  int // seconds

	CatalogPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		Environment:       getEnv("ENVIRONMENT", "dev"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "armory"),
		APIKey:            getEnv("API_KEY", ""),
		CraftHideCategory: getEnvList("CRAFT_HIDE_CATEGORY"),
		CraftHideType:     getEnvList("CRAFT_HIDE_TYPE"),
		CraftHideModel:    getEnvList("CRAFT_HIDE_MODEL"),
		CatalogPath:       getEnv("CATALOG_PATH", ConfigPathEconomyItems),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.InventoryMaxItems, err = getEnvInt("INVENTORY_MAX_ITEMS", DefaultInventoryMaxItems); err != nil {
		return nil, err
	}
	if cfg.InventoryStorageUnitMaxItems, err = getEnvInt("INVENTORY_STORAGE_UNIT_MAX_ITEMS", DefaultStorageUnitMaxItems); err != nil {
		return nil, err
	}
	if cfg.InventoryCacheSize, err = getEnvInt("INVENTORY_CACHE_SIZE", DefaultInventoryCacheSize); err != nil {
		return nil, err
	}
	if cfg.InventoryCacheTTL, err = getEnvInt("INVENTORY_CACHE_TTL_SECONDS", DefaultInventoryCacheTTL); err != nil {
		return nil, err
	}
	cfg.InventoryItemAllowEdit = getEnv("INVENTORY_ITEM_ALLOW_EDIT", "false") == "true"

	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", DefaultDBMaxConns); err != nil {
		return nil, err
	}
	if cfg.DBMaxConnIdleTime, err = getEnvDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime); err != nil {
		return nil, err
	}
	if cfg.DBMaxConnLifetime, err = getEnvDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime); err != nil {
		return nil, err
	}

	if cfg.CraftHideID, err = getEnvIntList("CRAFT_HIDE_ID"); err != nil {
		return nil, err
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// getEnvList parses a comma-separated environment variable
func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvIntList(key string) ([]int, error) {
	parts := getEnvList(key)
	if parts == nil {
		return nil, nil
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", key, p, err)
		}
		out = append(out, n)
	}
	return out, nil
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
