package channeltalk

import (
	"github.com/nextlevelbuilder/talkbridge/internal/bus"
	"github.com/nextlevelbuilder/talkbridge/internal/sessions"
)

// Dispatcher hands authorized events to the agent pipeline by publishing
// them on the message bus. Fire-and-forget: once published, the event's
// fate belongs to the consumer side.
type Dispatcher struct {
	router bus.MessageRouter
}

// NewDispatcher creates a dispatcher over the given bus.
func NewDispatcher(router bus.MessageRouter) *Dispatcher {
	return &Dispatcher{router: router}
}

// Dispatch publishes an authorized inbound message. The metadata keys are
// the contract with the consumer: account_id routes the reply back to the
// right credentials, chat_type selects the send endpoint, message_id is the
// platform message id (synthetic for function invocations).
func (d *Dispatcher) Dispatch(accountID string, ev *Event, ident Identity) {
	kind := sessions.PeerKindFromGroup(ident.IsGroup)

	d.router.PublishInbound(bus.InboundMessage{
		Channel:  ChannelName,
		SenderID: ident.SenderID,
		ChatID:   ident.ChatID,
		Content:  ev.Message.Text(),
		PeerKind: string(kind),
		Metadata: map[string]string{
			"account_id":     accountID,
			"message_id":     ev.Message.ID,
			"chat_type":      string(kind),
			"sender_name":    ident.SenderName,
			"sender_contact": ident.SenderContact,
		},
	})
}
