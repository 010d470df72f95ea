package channeltalk

import (
	"log/slog"
	"slices"

	"github.com/nextlevelbuilder/talkbridge/internal/store"
)

// Access policies controlling which senders reach the agent pipeline.
const (
	PolicyOpen      = "open"
	PolicyDisabled  = "disabled"
	PolicyAllowlist = "allowlist"
	PolicyPairing   = "pairing" // default
)

// AllowAny is the wildcard allow-list entry matching every sender.
const AllowAny = "*"

// Outcome is the result class of an authorization decision.
type Outcome int

const (
	Allowed Outcome = iota
	PendingPairing
	Denied
)

// Decision is the result of authorizing a sender against a target's policy.
// Code and NewRequest are set only for PendingPairing: the caller must send
// exactly one pairing-instruction reply when NewRequest is true, and nothing
// on a retry while already pending.
type Decision struct {
	Outcome    Outcome
	Code       string
	NewRequest bool
}

// Gate enforces the configured access policy before an event may reach the
// agent pipeline. Pairing state lives in the external store; the gate only
// reads and upserts through its interface.
type Gate struct {
	pairing store.PairingStore
}

// NewGate creates an access gate backed by the given pairing store.
// The store may be nil; pairing policy then degrades to allow-list only.
func NewGate(pairing store.PairingStore) *Gate {
	return &Gate{pairing: pairing}
}

// Authorize evaluates the target's access policy for a sender.
func (g *Gate) Authorize(senderID, chatID string, target *Target) (Decision, error) {
	policy := target.AccessPolicy
	if policy == "" {
		policy = PolicyPairing
	}

	switch policy {
	case PolicyOpen:
		return Decision{Outcome: Allowed}, nil

	case PolicyDisabled:
		return Decision{Outcome: Denied}, nil

	case PolicyAllowlist:
		if inAllowList(target.AllowFrom, senderID) {
			return Decision{Outcome: Allowed}, nil
		}
		return Decision{Outcome: Denied}, nil

	default: // pairing
		if inAllowList(target.AllowFrom, senderID) {
			return Decision{Outcome: Allowed}, nil
		}
		if g.pairing == nil {
			slog.Debug("no pairing store configured, denying sender",
				"account", target.AccountID, "sender_id", senderID)
			return Decision{Outcome: Denied}, nil
		}
		if g.pairing.IsPaired(senderID, ChannelName) {
			return Decision{Outcome: Allowed}, nil
		}

		code, created, err := g.pairing.RequestPairing(senderID, ChannelName, chatID)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Outcome: PendingPairing, Code: code, NewRequest: created}, nil
	}
}

// inAllowList reports whether senderID is in the configured allow-list.
// The wildcard entry "*" matches any sender.
func inAllowList(allowList []string, senderID string) bool {
	if slices.Contains(allowList, AllowAny) {
		return true
	}
	return senderID != "" && slices.Contains(allowList, senderID)
}
