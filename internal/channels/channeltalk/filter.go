package channeltalk

import (
	"slices"
	"strings"
)

// ShouldProcess decides whether an event represents a genuine human message
// requiring a response. Rules are applied in order, short-circuiting on the
// first rejection:
//
//  1. only push events carrying a message entity proceed
//  2. bot-authored messages are rejected (prevents response loops)
//  3. whitespace-only messages are rejected
//  4. group chats outside a configured group allow-list are rejected
//  5. group chats require a trigger keyword when keywords are configured;
//     direct chats are never keyword-gated
//
// Keyword matching is a case-insensitive substring match with no word
// boundary: keyword "AI" also matches inside other words.
func ShouldProcess(ev *Event, target *Target) bool {
	if ev == nil || ev.Kind != EventPush || ev.Type != EntityMessage || ev.Message == nil {
		return false
	}

	msg := ev.Message
	if msg.PersonType == PersonBot {
		return false
	}

	if strings.TrimSpace(msg.Text()) == "" {
		return false
	}

	if msg.IsGroup() {
		if len(target.GroupAllowList) > 0 && !slices.Contains(target.GroupAllowList, msg.ChatID) {
			return false
		}
		if len(target.TriggerKeywords) > 0 && !containsKeyword(msg.Text(), target.TriggerKeywords) {
			return false
		}
	}

	return true
}
