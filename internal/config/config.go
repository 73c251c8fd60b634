// Package config loads runtime configuration from the environment and the
// endpoints file.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// TestnetPassphrase identifies the Stellar test network. Transactions signed
// against the wrong passphrase are rejected by the ledger.
const TestnetPassphrase = "Test SDF Network ; September 2015"

// DefaultTreasury is the demo treasury account every investment pays into.
const DefaultTreasury = "GDL3VFUZE65BUWBVRHJUJZN7O33XXPBUZA3CA6747FCGYHHCSSZXK336"

// Config is the complete runtime configuration, decoded from environment
// variables. Values left unset fall back to testnet demo defaults.
type Config struct {
	HTTPPort  int    `env:"HTTP_PORT,default=8080"`
	AuthToken string `env:"AUTH_TOKEN"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`

	NetworkPassphrase string `env:"NETWORK_PASSPHRASE"`
	EndpointsPath     string `env:"ENDPOINTS_CONFIG,default=config/endpoints.yaml"`
	FriendbotURL      string `env:"FRIENDBOT_URL,default=https://friendbot.stellar.org"`
	Treasury          string `env:"TREASURY_ACCOUNT"`

	// WalletSeed is the S-prefixed secret of the server-side wallet. When
	// empty a throwaway keypair is generated at startup.
	WalletSeed string `env:"WALLET_SEED"`

	// StorageBackend selects the ledger cache implementation: "json" for the
	// snapshot file, "postgres" for the database.
	StorageBackend string `env:"STORAGE_BACKEND,default=json"`
	StorePath      string `env:"STORE_PATH,default=data/ledger.json"`
	PostgresDSN    string `env:"POSTGRES_DSN"`

	HTTPTimeout       time.Duration `env:"HTTP_TIMEOUT,default=15s"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL,default=5m"`
}

// Load decodes the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if cfg.NetworkPassphrase == "" {
		cfg.NetworkPassphrase = TestnetPassphrase
	}
	if cfg.Treasury == "" {
		cfg.Treasury = DefaultTreasury
	}

	if cfg.StorageBackend != "json" && cfg.StorageBackend != "postgres" {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "postgres" && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required with the postgres backend")
	}

	return &cfg, nil
}
