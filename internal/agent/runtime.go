// Package agent connects the message bus to the agent runtime: the consumer
// drains inbound messages, builds session-scoped requests, and streams the
// runtime's replies back out as outbound messages.
package agent

import "context"

// Request is one turn handed to the agent runtime.
type Request struct {
	RunID      string `json:"run_id"`
	SessionKey string `json:"session_key"`
	AccountID  string `json:"account_id,omitempty"`
	Channel    string `json:"channel"`
	ChatID     string `json:"chat_id"`
	ChatKind   string `json:"chat_kind"` // "direct" or "group"
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name,omitempty"`
	// SenderContact is the sender's email or phone when the platform knows
	// it; used by the runtime for personalization only.
	SenderContact string `json:"sender_contact,omitempty"`
	Content       string `json:"content"`
	// Text mirrors Content. Older runtime builds read this field; both are
	// always populated.
	Text string `json:"text,omitempty"`
}

// Reply is one chunk of the runtime's streamed response. A single request
// may produce several replies (progressive output).
type Reply struct {
	Text     string `json:"text,omitempty"`
	MediaURL string `json:"media_url,omitempty"`
}

// DeliverFunc receives each reply chunk as the runtime produces it.
// Delivery is at-most-once per chunk; the runtime never re-sends.
type DeliverFunc func(Reply)

// Runtime executes agent turns. Run blocks until the turn completes or ctx
// is cancelled, invoking deliver for every produced chunk along the way.
type Runtime interface {
	Run(ctx context.Context, req Request, deliver DeliverFunc) error
}
