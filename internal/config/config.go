package config

import (
	"encoding/json"
	"fmt"
)

// FlexibleStringSlice accepts both ["str"] and [123] in JSON.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

// Config is the root configuration for the TalkBridge gateway.
type Config struct {
	Gateway  GatewayConfig   `json:"gateway"`
	Agent    AgentConfig     `json:"agent"`
	Accounts []AccountConfig `json:"accounts,omitempty"`
	Database DatabaseConfig  `json:"database,omitempty"`
	Pairing  PairingConfig   `json:"pairing,omitempty"`
}

// GatewayConfig configures the inbound HTTP listener.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// AgentConfig points at the agent-routing runtime that generates replies.
// Token is a secret and comes from env only.
type AgentConfig struct {
	ID       string `json:"id,omitempty"` // agent id used in session keys (default "default")
	Endpoint string `json:"endpoint"`     // base URL of the agent runtime
	Token    string `json:"-"`            // from env TALKBRIDGE_AGENT_TOKEN only
}

// AccountConfig holds the per-account operating parameters for one Channel
// Talk workspace. AccessKey/AccessSecret are secrets; for the first account
// they may come from env instead of the config file.
type AccountConfig struct {
	AccountID       string              `json:"account_id"`
	AccessKey       string              `json:"access_key,omitempty"`
	AccessSecret    string              `json:"access_secret,omitempty"`
	BotName         string              `json:"bot_name,omitempty"`
	BaseURL         string              `json:"base_url,omitempty"` // default https://api.channel.io
	AccessPolicy    string              `json:"access_policy,omitempty"` // open|disabled|allowlist|pairing (default pairing)
	AllowFrom       FlexibleStringSlice `json:"allow_from,omitempty"`
	GroupAllowList  FlexibleStringSlice `json:"group_allow_list,omitempty"`
	TriggerKeywords FlexibleStringSlice `json:"trigger_keywords,omitempty"`
}

// DatabaseConfig configures Postgres for managed mode.
// PostgresDSN is NEVER read from the config file (secret) — env only.
type DatabaseConfig struct {
	PostgresDSN string `json:"-"`              // from env TALKBRIDGE_POSTGRES_DSN only
	Mode        string `json:"mode,omitempty"` // "standalone" (default) or "managed"
}

// IsManagedMode returns true if pairing state lives in Postgres.
func (c *Config) IsManagedMode() bool {
	return c.Database.Mode == "managed" && c.Database.PostgresDSN != ""
}

// PairingConfig configures the standalone-mode pairing store.
type PairingConfig struct {
	StorePath string `json:"store_path,omitempty"` // default ~/.talkbridge/pairing.json
}

// Account returns the config for an account id, or nil if not configured.
func (c *Config) Account(accountID string) *AccountConfig {
	for i := range c.Accounts {
		if c.Accounts[i].AccountID == accountID {
			return &c.Accounts[i]
		}
	}
	return nil
}
