package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/talkbridge/internal/bus"
	"github.com/nextlevelbuilder/talkbridge/internal/sessions"
)

// Consumer drains inbound messages from the bus and runs an agent turn for
// each one. Turns run on their own goroutines so a slow turn never blocks
// the next message; replies go back through the bus as outbound messages.
type Consumer struct {
	agentID string
	runtime Runtime
	router  bus.MessageRouter
}

// NewConsumer creates a consumer for the given agent id and runtime.
func NewConsumer(agentID string, runtime Runtime, router bus.MessageRouter) *Consumer {
	return &Consumer{
		agentID: agentID,
		runtime: runtime,
		router:  router,
	}
}

// Run consumes inbound messages until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	slog.Info("agent consumer started", "agent_id", c.agentID)
	for {
		msg, ok := c.router.ConsumeInbound(ctx)
		if !ok {
			slog.Info("agent consumer stopped", "agent_id", c.agentID)
			return
		}
		go c.handleMessage(ctx, msg)
	}
}

// handleMessage runs one agent turn. Run errors are logged; the sender gets
// no error notification, matching the silent-drop posture of the inbound
// pipeline.
func (c *Consumer) handleMessage(ctx context.Context, msg bus.InboundMessage) {
	kind := sessions.PeerKind(msg.PeerKind)
	if kind == "" {
		kind = sessions.PeerDirect
	}
	accountID := msg.Metadata["account_id"]

	req := Request{
		RunID:         uuid.Must(uuid.NewV7()).String(),
		SessionKey:    sessions.BuildSessionKey(c.agentID, msg.Channel, accountID, kind, msg.ChatID),
		AccountID:     accountID,
		Channel:       msg.Channel,
		ChatID:        msg.ChatID,
		ChatKind:      string(kind),
		SenderID:      msg.SenderID,
		SenderName:    msg.Metadata["sender_name"],
		SenderContact: msg.Metadata["sender_contact"],
		Content:       msg.Content,
		Text:          msg.Content,
	}

	deliver := func(reply Reply) {
		if strings.TrimSpace(reply.Text) == "" && reply.MediaURL == "" {
			return
		}
		c.router.PublishOutbound(bus.OutboundMessage{
			Channel:  msg.Channel,
			ChatID:   msg.ChatID,
			Content:  reply.Text,
			MediaURL: reply.MediaURL,
			Metadata: map[string]string{
				"account_id": accountID,
				"chat_type":  string(kind),
			},
		})
	}

	if err := c.runtime.Run(ctx, req, deliver); err != nil {
		slog.Error("agent turn failed",
			"run_id", req.RunID, "session_key", req.SessionKey, "error", err)
	}
}
