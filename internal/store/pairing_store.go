// Package store defines the storage interfaces consumed by the bridge.
// Standalone mode uses file-backed implementations; managed mode uses
// Postgres.
package store

import "time"

// PairingRequest is one pending pairing entry, keyed by (channel, senderID).
type PairingRequest struct {
	SenderID  string    `json:"sender_id"`
	Channel   string    `json:"channel"`
	ChatID    string    `json:"chat_id,omitempty"`
	Code      string    `json:"code"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// PairingStore manages pairing state for unknown senders.
//
// RequestPairing must be idempotent: a second call for an already-pending
// sender returns the same code with created=false, never issuing a duplicate
// code. Approved senders are reported by IsPaired.
type PairingStore interface {
	// IsPaired reports whether the sender has an approved pairing.
	IsPaired(senderID, channel string) bool

	// RequestPairing records a pairing request and returns its code.
	// created is true only when this call created a new request.
	RequestPairing(senderID, channel, chatID string) (code string, created bool, err error)

	// Approve marks the request with the given code as approved.
	// ok is false when no pending request carries the code.
	Approve(code string) (senderID string, ok bool, err error)

	// Pending lists unapproved pairing requests.
	Pending() ([]PairingRequest, error)
}
