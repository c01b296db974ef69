package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wishplanet/wishplanet/pkg/validation"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Blockchain configuration
	RPCURL          string
	ChainID         *big.Int
	ContractAddress string
	RPCTimeoutMs    int
	// Core tuning
	ReloadDebounceMs        int
	LeaderboardDefaultLimit int
	// Notification configuration
	TelegramBotToken string
	TelegramChatID   string
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:             getEnvAsBool("DEVELOPMENT", false),
		APIPort:                 getEnvAsInt("API_PORT", 8792),
		RPCURL:                  getEnv("RPC_URL", "http://localhost:8545"),
		ChainID:                 getEnvAsChainID("CHAIN_ID", nil),
		ContractAddress:         getEnv("CONTRACT_ADDRESS", ""),
		RPCTimeoutMs:            getEnvAsInt("RPC_TIMEOUT_MS", 30000),
		ReloadDebounceMs:        getEnvAsInt("RELOAD_DEBOUNCE_MS", 50),
		LeaderboardDefaultLimit: getEnvAsInt("LEADERBOARD_DEFAULT_LIMIT", 10),
		TelegramBotToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:          getEnv("TELEGRAM_CHAT_ID", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.ChainID == nil {
		return fmt.Errorf("CHAIN_ID is required")
	}
	if c.ChainID.Sign() <= 0 {
		return fmt.Errorf("CHAIN_ID must be positive, got %s", c.ChainID)
	}

	if c.ContractAddress == "" {
		return fmt.Errorf("CONTRACT_ADDRESS is required")
	}
	if err := validation.ValidateAddress(c.ContractAddress); err != nil {
		return fmt.Errorf("invalid CONTRACT_ADDRESS format: %w", err)
	}
	c.ContractAddress = validation.NormalizeAddress(c.ContractAddress)

	if c.RPCURL == "" {
		return fmt.Errorf("RPC_URL is required")
	}

	if c.RPCTimeoutMs <= 0 {
		return fmt.Errorf("RPC_TIMEOUT_MS must be positive, got %d", c.RPCTimeoutMs)
	}
	if c.ReloadDebounceMs < 0 {
		return fmt.Errorf("RELOAD_DEBOUNCE_MS cannot be negative, got %d", c.ReloadDebounceMs)
	}
	if c.LeaderboardDefaultLimit <= 0 {
		return fmt.Errorf("LEADERBOARD_DEFAULT_LIMIT must be positive, got %d", c.LeaderboardDefaultLimit)
	}

	return nil
}

// RPCTimeout returns the per-request RPC timeout as a duration.
func (c *Config) RPCTimeout() time.Duration {
	return time.Duration(c.RPCTimeoutMs) * time.Millisecond
}

// ParseChainID accepts a decimal ("10143") or hex ("0x279f") chain id.
func ParseChainID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("chain id cannot be empty")
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	id, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid chain id %q", s)
	}
	return id, nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsChainID(name string, defaultValue *big.Int) *big.Int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := ParseChainID(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
