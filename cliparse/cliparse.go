package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

// Store type constants
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port           int
	DatabaseURL    string
	StoreType      string
	AdminKey       string
	ConfirmTimeout time.Duration
}

// ParseFlags validates flags with environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var confirmSeconds int

	fs := flag.NewFlagSet("quorum", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.StoreType, "store", "", "Store type (postgres or memory)")
	fs.IntVar(&confirmSeconds, "confirm-timeout", 0, "Destructive-action confirm window in seconds")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8470 // default
		}
	}

	if cfg.StoreType == "" {
		cfg.StoreType = os.Getenv("STORE_TYPE")
		if cfg.StoreType == "" {
			cfg.StoreType = StorePostgres
		}
	}
	if cfg.StoreType != StorePostgres && cfg.StoreType != StoreMemory {
		return Config{}, errors.New("store type must be postgres or memory")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.StoreType == StorePostgres {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if confirmSeconds == 0 {
		if s := os.Getenv("CONFIRM_TIMEOUT_SECONDS"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v <= 0 {
				return Config{}, errors.New("invalid CONFIRM_TIMEOUT_SECONDS env variable")
			}
			confirmSeconds = v
		} else {
			confirmSeconds = 5 // default
		}
	}
	cfg.ConfirmTimeout = time.Duration(confirmSeconds) * time.Second

	// Secrets - MUST be provided
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	return cfg, nil
}
