package config

import (
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration.
type Config struct {
	// Database configuration. Empty DatabaseURL selects the in-memory
	// entity store.
	DatabaseURL string

	// Discord announcer configuration. Empty token disables the announcer.
	DiscordToken     string
	DiscordChannelID string

	// Market configuration
	MarketAddress    string // account holding pooled stakes
	HouseEdgeBps     uint64 // basis points removed before payouts
	MinBet           uint64
	MaxBet           uint64
	PoolCap          uint64 // 0 means uncapped
	AdminAddress     string // bootstrap admin allow-list entry
	WildcardWindow   int    // wildcard decision window in seconds
	SweepPoolLimit   int    // pools closed per sweep cycle
	SweepBattleLimit int    // wildcard timeouts resolved per sweep cycle

	// Environment is "development" or "production".
	Environment string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // protects instance for test setup
)

// Get returns the global configuration instance.
func Get() *Config {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if instance == nil {
			instance = load()
		}
	})
	return instance
}

// load loads configuration from environment variables.
func load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		MarketAddress:    getEnvWithDefault("MARKET_ADDRESS", "arenabet:market"),
		AdminAddress:     os.Getenv("ADMIN_ADDRESS"),
		HouseEdgeBps:     500,
		MinBet:           1,
		MaxBet:           1_000_000_000,
		PoolCap:          0,
		WildcardWindow:   60,
		SweepPoolLimit:   15,
		SweepBattleLimit: 10,
		Environment:      getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if v := os.Getenv("HOUSE_EDGE_BPS"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.HouseEdgeBps = parsed
		}
	}
	if v := os.Getenv("MIN_BET"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MinBet = parsed
		}
	}
	if v := os.Getenv("MAX_BET"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MaxBet = parsed
		}
	}
	if v := os.Getenv("POOL_CAP"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.PoolCap = parsed
		}
	}
	if v := os.Getenv("WILDCARD_WINDOW_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.WildcardWindow = parsed
		}
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SetTestConfig overrides the global config instance for testing.
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance for testing.
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests.
func NewTestConfig() *Config {
	return &Config{
		MarketAddress:    "market:test",
		HouseEdgeBps:     500,
		MinBet:           1,
		MaxBet:           1_000_000_000,
		WildcardWindow:   60,
		SweepPoolLimit:   15,
		SweepBattleLimit: 10,
		Environment:      "test",
	}
}
