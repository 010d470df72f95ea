package channeltalk

import (
	"fmt"
	"sync"

	"github.com/nextlevelbuilder/talkbridge/internal/config"
)

// Target holds the per-account operating parameters, immutable for the life
// of an account run. Reconstructed from configuration on every start; never
// persisted.
type Target struct {
	AccountID       string
	BotName         string
	AccessPolicy    string
	AllowFrom       []string
	GroupAllowList  []string
	TriggerKeywords []string
	Client          *Client
}

// NewTarget builds a Target from account configuration.
func NewTarget(cfg config.AccountConfig) (*Target, error) {
	if cfg.AccountID == "" {
		return nil, fmt.Errorf("channel-talk account_id is required")
	}
	if cfg.AccessKey == "" || cfg.AccessSecret == "" {
		return nil, fmt.Errorf("channel-talk account %s: access_key and access_secret are required", cfg.AccountID)
	}

	return &Target{
		AccountID:       cfg.AccountID,
		BotName:         cfg.BotName,
		AccessPolicy:    cfg.AccessPolicy,
		AllowFrom:       cfg.AllowFrom,
		GroupAllowList:  cfg.GroupAllowList,
		TriggerKeywords: cfg.TriggerKeywords,
		Client:          NewClient(cfg.AccessKey, cfg.AccessSecret, cfg.BotName, cfg.BaseURL),
	}, nil
}

// Registry maps account ids to active targets. Mutated only at account
// start/stop; event processing performs pure lookups.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]*Target
}

// NewRegistry creates an empty target registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]*Target)}
}

// Register adds a target for its account id, replacing any previous entry.
func (r *Registry) Register(t *Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[t.AccountID] = t
}

// Unregister removes the target for an account id.
func (r *Registry) Unregister(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.targets, accountID)
}

// Lookup returns the target for an account id.
func (r *Registry) Lookup(accountID string) (*Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[accountID]
	return t, ok
}

// Accounts returns the registered account ids.
func (r *Registry) Accounts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.targets))
	for id := range r.targets {
		ids = append(ids, id)
	}
	return ids
}
