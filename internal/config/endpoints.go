package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EndpointsConfig lists the Horizon endpoints to rotate through, in
// preference order.
type EndpointsConfig struct {
	Horizon []string `yaml:"horizon"`
}

// LoadEndpoints loads the endpoint list from a YAML file.
func LoadEndpoints(path string) (*EndpointsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoints config: %w", err)
	}

	var cfg EndpointsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse endpoints config: %w", err)
	}
	if len(cfg.Horizon) == 0 {
		return nil, fmt.Errorf("endpoints config lists no horizon endpoints")
	}

	return &cfg, nil
}

// LoadEndpointsOrDefault loads the endpoint list or falls back to the public
// testnet instances when the file is missing.
func LoadEndpointsOrDefault(path string) *EndpointsConfig {
	cfg, err := LoadEndpoints(path)
	if err != nil {
		return DefaultEndpoints()
	}
	return cfg
}

// DefaultEndpoints returns the public testnet Horizon instances.
func DefaultEndpoints() *EndpointsConfig {
	return &EndpointsConfig{
		Horizon: []string{
			"https://horizon-testnet.stellar.org",
			"https://horizon-testnet-1.stellar.org",
		},
	}
}
