// Package sessions — session key builder for agent conversations.
//
// Session keys follow the canonical format:
//
//	agent:{agentId}:{channel}:{accountId}:{kind}:{chatId}
//
// Where {kind} is "direct" or "group". The account segment keeps
// conversations from different Channel Talk workspaces isolated even when
// chat ids collide.
//
// Examples:
//
//	agent:default:channel-talk:acme:direct:62bff2
//	agent:default:channel-talk:acme:group:70aa13
package sessions

import (
	"fmt"
	"strings"
)

// PeerKind distinguishes direct (customer) chats from group (team) chats.
type PeerKind string

const (
	PeerDirect PeerKind = "direct"
	PeerGroup  PeerKind = "group"
)

// BuildSessionKey builds the canonical session key for an account-scoped
// channel conversation.
func BuildSessionKey(agentID, channel, accountID string, kind PeerKind, chatID string) string {
	return fmt.Sprintf("agent:%s:%s:%s:%s:%s", agentID, channel, accountID, kind, chatID)
}

// ParseSessionKey extracts the agentID and rest from a canonical session key.
// Returns ("", "") if the key is not in the expected format.
func ParseSessionKey(key string) (agentID, rest string) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 3 || parts[0] != "agent" {
		return "", ""
	}
	return parts[1], parts[2]
}

// PeerKindFromGroup returns PeerGroup if isGroup is true, PeerDirect otherwise.
func PeerKindFromGroup(isGroup bool) PeerKind {
	if isGroup {
		return PeerGroup
	}
	return PeerDirect
}
