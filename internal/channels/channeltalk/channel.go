package channeltalk

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/nextlevelbuilder/talkbridge/internal/bus"
	"github.com/nextlevelbuilder/talkbridge/internal/config"
)

// pairingPrompt is sent once per new pairing request, into the chat the
// sender wrote from. Repeated messages while the request is pending get no
// further reply.
const pairingPrompt = "TalkBridge: access is not configured for this sender.\n" +
	"Pairing code: %s\n" +
	"An operator can approve it with: talkbridge pairing approve %s"

// Channel bridges Channel Talk accounts to the message bus. One Channel
// instance serves every configured account; per-account state lives in the
// target registry.
type Channel struct {
	accounts   []config.AccountConfig
	registry   *Registry
	gate       *Gate
	dispatcher *Dispatcher
	running    atomic.Bool

	// ctx bounds the background event-processing goroutines; set on Start.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewChannel creates the Channel Talk channel over the given bus and gate.
func NewChannel(accounts []config.AccountConfig, gate *Gate, router bus.MessageRouter) *Channel {
	return &Channel{
		accounts:   accounts,
		registry:   NewRegistry(),
		gate:       gate,
		dispatcher: NewDispatcher(router),
	}
}

// Name returns the channel identifier used on the bus.
func (c *Channel) Name() string { return ChannelName }

// IsRunning reports whether the channel has been started.
func (c *Channel) IsRunning() bool { return c.running.Load() }

// Registry exposes the target registry for the HTTP handlers.
func (c *Channel) Registry() *Registry { return c.registry }

// Start registers a target for every configured account and probes each
// account's credentials. A failed probe is logged but does not keep the
// account from starting; the platform may be transiently down.
func (c *Channel) Start(ctx context.Context) error {
	if c.running.Load() {
		return nil
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())

	registered := 0
	for _, acct := range c.accounts {
		target, err := NewTarget(acct)
		if err != nil {
			slog.Error("skipping channel-talk account", "error", err)
			continue
		}
		c.registry.Register(target)
		registered++

		if err := target.Client.Probe(ctx); err != nil {
			slog.Warn("channel-talk credential probe failed",
				"account", target.AccountID, "error", err)
		} else {
			slog.Info("channel-talk account ready", "account", target.AccountID)
		}
	}

	if registered == 0 {
		return fmt.Errorf("no usable channel-talk accounts configured")
	}

	c.running.Store(true)
	slog.Info("channel-talk channel started", "accounts", registered)
	return nil
}

// Stop unregisters all accounts and cancels in-flight event processing.
func (c *Channel) Stop() error {
	if !c.running.Load() {
		return nil
	}
	c.running.Store(false)
	if c.cancel != nil {
		c.cancel()
	}
	for _, id := range c.registry.Accounts() {
		c.registry.Unregister(id)
	}
	slog.Info("channel-talk channel stopped")
	return nil
}

// Send delivers an outbound message to the platform. The account_id metadata
// entry, stamped at dispatch time, selects the credentials.
func (c *Channel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	accountID := msg.Metadata["account_id"]
	target, ok := c.registry.Lookup(accountID)
	if !ok {
		return fmt.Errorf("channel-talk account %q not registered", accountID)
	}

	group := msg.Metadata["chat_type"] == "group"
	msgID, err := target.Client.SendText(ctx, msg.ChatID, msg.Content, group)
	if err != nil {
		return fmt.Errorf("send to chat %s: %w", msg.ChatID, err)
	}
	slog.Debug("channel-talk message sent",
		"account", accountID, "chat_id", msg.ChatID, "message_id", msgID)
	return nil
}

// processEvent runs the full inbound pipeline for one canonical event:
// filter, identity resolution, access gate, then dispatch or pairing prompt.
// Runs on its own goroutine; the HTTP response has already been written.
func (c *Channel) processEvent(accountID string, ev *Event) {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	target, ok := c.registry.Lookup(accountID)
	if !ok {
		slog.Debug("event for unregistered account dropped", "account", accountID)
		return
	}

	if !ShouldProcess(ev, target) {
		return
	}

	ident, err := ResolveIdentity(ev)
	if err != nil {
		slog.Debug("event dropped during identity resolution",
			"account", accountID, "error", err)
		return
	}

	decision, err := c.gate.Authorize(ident.SenderID, ident.ChatID, target)
	if err != nil {
		slog.Error("access gate error",
			"account", accountID, "sender_id", ident.SenderID, "error", err)
		return
	}

	switch decision.Outcome {
	case Denied:
		slog.Debug("sender denied by access policy",
			"account", accountID, "sender_id", ident.SenderID,
			"policy", target.AccessPolicy)
		return

	case PendingPairing:
		if !decision.NewRequest {
			// Already pending; stay silent on repeats.
			return
		}
		prompt := fmt.Sprintf(pairingPrompt, decision.Code, decision.Code)
		if _, err := target.Client.SendText(ctx, ident.ChatID, prompt, ident.IsGroup); err != nil {
			slog.Error("failed to send pairing prompt",
				"account", accountID, "chat_id", ident.ChatID, "error", err)
		}
		return
	}

	slog.Info("channel-talk message accepted",
		"account", accountID, "sender_id", ident.SenderID,
		"chat_id", ident.ChatID, "group", ident.IsGroup,
		"preview", Truncate(ev.Message.Text(), 80))

	c.dispatcher.Dispatch(accountID, ev, ident)
}
