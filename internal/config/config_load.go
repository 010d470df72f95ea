package config

import (
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 18890,
		},
		Agent: AgentConfig{
			ID: "default",
		},
		Pairing: PairingConfig{
			StorePath: "~/.talkbridge/pairing.json",
		},
	}
}

// Load reads config from a JSON5 file, then overlays env vars.
// A missing file is not an error — defaults plus env apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	envStr("TALKBRIDGE_HOST", &c.Gateway.Host)
	if v := os.Getenv("TALKBRIDGE_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.Gateway.Port = port
		}
	}

	envStr("TALKBRIDGE_AGENT_ENDPOINT", &c.Agent.Endpoint)
	envStr("TALKBRIDGE_AGENT_TOKEN", &c.Agent.Token)
	envStr("TALKBRIDGE_AGENT_ID", &c.Agent.ID)

	envStr("TALKBRIDGE_POSTGRES_DSN", &c.Database.PostgresDSN)
	envStr("TALKBRIDGE_MODE", &c.Database.Mode)
	envStr("TALKBRIDGE_PAIRING_STORE", &c.Pairing.StorePath)

	// Single-account convenience: credentials via env populate the first
	// configured account, or create one when none are configured.
	key := os.Getenv("TALKBRIDGE_ACCESS_KEY")
	secret := os.Getenv("TALKBRIDGE_ACCESS_SECRET")
	if key != "" && secret != "" {
		if len(c.Accounts) == 0 {
			accountID := os.Getenv("TALKBRIDGE_ACCOUNT_ID")
			if accountID == "" {
				accountID = "default"
			}
			c.Accounts = append(c.Accounts, AccountConfig{AccountID: accountID})
		}
		c.Accounts[0].AccessKey = key
		c.Accounts[0].AccessSecret = secret
	}
}

// ExpandHome replaces a leading ~ with the user home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, _ := os.UserHomeDir()
	if len(path) > 1 && path[1] == '/' {
		return home + path[1:]
	}
	return home
}
