// Package channeltalk implements the Channel Talk bridge: webhook and
// function callbacks are normalized into one canonical event shape, gated by
// access policy, and handed to the agent runtime via the message bus.
//
// Two upstream entry points produce events:
//   - webhook push deliveries (POST /webhooks/channel-talk/{accountId})
//   - command/function invocations (PUT /functions/channel-talk/{accountId})
//
// The function path is rewritten into the same Event shape the webhook path
// carries, so everything downstream of the normalizer has exactly one code
// path.
package channeltalk

import "strings"

// ChannelName identifies this channel on the bus and in pairing state.
const ChannelName = "channel-talk"

// Event kinds carried in the webhook envelope.
const (
	EventPush   = "push"
	EventUpdate = "update"
)

// Entity types. Only message entities are processed.
const EntityMessage = "message"

// Person types for message authors.
const (
	PersonUser    = "user"    // external customer
	PersonManager = "manager" // team member
	PersonBot     = "bot"
)

// Chat types. "group" is an internal team conversation; everything else
// ("userChat", "directChat") is a one-on-one customer conversation.
const ChatTypeGroup = "group"

// Event is the canonical inbound event, shared by both entry points.
type Event struct {
	Kind    string   `json:"event"`            // "push", "update", ...
	Type    string   `json:"type"`             // entity type, e.g. "message"
	Message *Message `json:"entity,omitempty"` // set when Type == "message"
	Refers  *Refers  `json:"refers,omitempty"`
}

// Message is the message entity of a push event.
type Message struct {
	ID         string  `json:"id"`
	ChatID     string  `json:"chatId"`
	ChatType   string  `json:"chatType"`
	PersonType string  `json:"personType"`
	PersonID   string  `json:"personId"`
	PlainText  string  `json:"plainText,omitempty"`
	Blocks     []Block `json:"blocks,omitempty"`
	CreatedAt  int64   `json:"createdAt,omitempty"` // epoch millis
}

// Text returns the flattened plain-text form of the message, regardless of
// whether the source carried plain text or a structured block list.
func (m *Message) Text() string {
	if m.PlainText != "" {
		return m.PlainText
	}
	return FlattenBlocks(m.Blocks)
}

// IsGroup reports whether the message belongs to a team group chat.
func (m *Message) IsGroup() bool {
	return m.ChatType == ChatTypeGroup
}

// Block is one element of a structured message body.
type Block struct {
	Type     string  `json:"type"` // "text", "code", "bullets"
	Value    string  `json:"value,omitempty"`
	Language string  `json:"language,omitempty"`
	Blocks   []Block `json:"blocks,omitempty"` // bullets children
}

// Refers carries denormalized info about the chat and the people mentioned in
// the event. Used only for display/identity enrichment, never authorization.
type Refers struct {
	Chat    *ChatRef    `json:"chat,omitempty"`
	User    *UserRef    `json:"user,omitempty"`
	Manager *ManagerRef `json:"manager,omitempty"`
}

// ChatRef is the referenced chat.
type ChatRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// UserRef is the referenced external customer.
type UserRef struct {
	ID      string       `json:"id"`
	Name    string       `json:"name,omitempty"`
	Profile *UserProfile `json:"profile,omitempty"`
}

// UserProfile is the customer directory profile.
type UserProfile struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// Contact returns the customer's contact handle, preferring email.
func (p *UserProfile) Contact() string {
	if p == nil {
		return ""
	}
	if p.Email != "" {
		return p.Email
	}
	return p.MobileNumber
}

// ManagerRef is the referenced team member from the staff directory.
type ManagerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// --- Function (command invocation) payload ---

// FunctionRequest is the command-invocation payload of the function endpoint.
// Two historical shapes exist: nested chat/input objects and flat legacy
// fields (chatId, value). The nested shape takes priority.
type FunctionRequest struct {
	Method  string          `json:"method,omitempty"`
	Params  FunctionParams  `json:"params"`
	Context FunctionContext `json:"context"`
}

// FunctionParams carries the invocation arguments.
type FunctionParams struct {
	Chat     *ParamChat  `json:"chat,omitempty"`
	Input    *ParamInput `json:"input,omitempty"`
	ChatID   string      `json:"chatId,omitempty"`   // legacy flat shape
	ChatType string      `json:"chatType,omitempty"` // legacy flat shape
	Value    string      `json:"value,omitempty"`    // legacy flat shape
}

// ParamChat is the nested chat object of the current payload shape.
type ParamChat struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// ParamInput is the nested input object of the current payload shape.
type ParamInput struct {
	Value string `json:"value"`
}

// FunctionContext identifies the calling channel and caller.
type FunctionContext struct {
	Channel CallerChannel `json:"channel"`
	Caller  Caller        `json:"caller"`
}

// CallerChannel is the workspace the invocation originated from.
type CallerChannel struct {
	ID string `json:"id"`
}

// Caller is the person invoking the function.
type Caller struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "manager" or "user"
}

// Truncate shortens a string to maxLen, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// containsKeyword reports whether text contains any keyword as a
// case-insensitive substring. An empty keyword list never matches.
func containsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
