package channels

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nextlevelbuilder/talkbridge/internal/bus"
)

// Manager owns the registered channels: it starts and stops them together
// and runs the outbound dispatch loop that drains the bus into Channel.Send.
type Manager struct {
	mu       sync.RWMutex
	channels map[string]Channel
	router   bus.MessageRouter
}

// NewManager creates a channel manager over the given bus.
func NewManager(router bus.MessageRouter) *Manager {
	return &Manager{
		channels: make(map[string]Channel),
		router:   router,
	}
}

// Register adds a channel. Registering twice under one name replaces the
// earlier entry.
func (m *Manager) Register(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[ch.Name()] = ch
}

// Get returns a registered channel by name.
func (m *Manager) Get(name string) (Channel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.channels[name]
	return ch, ok
}

// StartAll starts every registered channel and launches the outbound
// dispatch loop. Returns the first start error; channels started before the
// failure are stopped again.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var started []Channel
	for name, ch := range m.channels {
		if err := ch.Start(ctx); err != nil {
			for _, s := range started {
				s.Stop()
			}
			return fmt.Errorf("start channel %s: %w", name, err)
		}
		started = append(started, ch)
		slog.Info("channel started", "channel", name)
	}

	go m.dispatchOutbound(ctx)
	return nil
}

// StopAll stops every registered channel. Errors are logged, not returned;
// shutdown proceeds through all channels regardless.
func (m *Manager) StopAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for name, ch := range m.channels {
		if err := ch.Stop(); err != nil {
			slog.Error("channel stop failed", "channel", name, "error", err)
		}
	}
}

// dispatchOutbound drains outbound messages from the bus into the owning
// channel. Send failures are logged and the message is dropped; there is no
// retry queue.
func (m *Manager) dispatchOutbound(ctx context.Context) {
	for {
		msg, ok := m.router.SubscribeOutbound(ctx)
		if !ok {
			return
		}

		ch, found := m.Get(msg.Channel)
		if !found {
			slog.Warn("outbound message for unknown channel dropped",
				"channel", msg.Channel, "chat_id", msg.ChatID)
			continue
		}
		if !ch.IsRunning() {
			slog.Warn("outbound message for stopped channel dropped",
				"channel", msg.Channel, "chat_id", msg.ChatID)
			continue
		}

		if err := ch.Send(ctx, msg); err != nil {
			slog.Error("outbound send failed",
				"channel", msg.Channel, "chat_id", msg.ChatID, "error", err)
		}
	}
}

// SendToChannel delivers one outbound message directly, bypassing the bus.
// Used by operator tooling.
func (m *Manager) SendToChannel(ctx context.Context, msg bus.OutboundMessage) error {
	ch, ok := m.Get(msg.Channel)
	if !ok {
		return fmt.Errorf("unknown channel %q", msg.Channel)
	}
	return ch.Send(ctx, msg)
}
