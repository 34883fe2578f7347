package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir      string
	AccountsFile string

	StockPerItem   int
	SignInAttempts int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on system env variables")
	}

	return &Config{
		DataDir:      getEnvOrDefault("DATA_DIR", "data"),
		AccountsFile: getEnvOrDefault("ACCOUNTS_FILE", "accounts.txt"),

		StockPerItem:   getEnvIntOrDefault("STOCK_PER_ITEM", 10),
		SignInAttempts: getEnvIntOrDefault("SIGNIN_ATTEMPTS", 4),
	}
}

func getEnvOrDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		slog.Warn("invalid value, using default", "key", key, "value", val)
		return def
	}
	return n
}

// AccountsPath is the full path of the account ledger file.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.DataDir, c.AccountsFile)
}
