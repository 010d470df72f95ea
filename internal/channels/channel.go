// Package channels defines the channel abstraction and the manager that
// owns channel lifecycle and outbound delivery.
package channels

import (
	"context"

	"github.com/nextlevelbuilder/talkbridge/internal/bus"
)

// Channel is a messaging platform connection. Implementations receive
// platform events on their own transport (webhooks here) and deliver
// outbound messages handed to Send.
type Channel interface {
	// Name returns the unique channel identifier used on the bus.
	Name() string

	// Start brings the channel up. ctx bounds startup work only, not the
	// channel's lifetime.
	Start(ctx context.Context) error

	// Stop shuts the channel down and releases its resources.
	Stop() error

	// Send delivers an outbound message to the platform.
	Send(ctx context.Context, msg bus.OutboundMessage) error

	// IsRunning reports whether the channel is started.
	IsRunning() bool
}
