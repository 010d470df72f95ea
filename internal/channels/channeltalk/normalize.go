package channeltalk

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Tagged normalization failures, mapped to 4xx at the HTTP boundary.
var (
	ErrMissingChatID = errors.New("missing chat id")
	ErrMissingInput  = errors.New("missing input")
)

// NormalizeFunctionRequest converts a command-invocation payload into the
// canonical event shape used by webhook push events. Pure transform: no side
// effects, failures are returned as tagged errors.
//
// Extraction tolerates both historical payload shapes: the nested chat/input
// objects take priority over the flat legacy fields (chatId, value) —
// whichever is present and non-empty wins.
func NormalizeFunctionRequest(req *FunctionRequest) (*Event, error) {
	chatID := ""
	chatType := ""
	if req.Params.Chat != nil {
		chatID = req.Params.Chat.ID
		chatType = req.Params.Chat.Type
	}
	if chatID == "" {
		chatID = req.Params.ChatID
	}
	if chatType == "" {
		chatType = req.Params.ChatType
	}
	if chatID == "" {
		return nil, ErrMissingChatID
	}

	text := ""
	if req.Params.Input != nil {
		text = req.Params.Input.Value
	}
	if text == "" {
		text = req.Params.Value
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMissingInput
	}

	personType := PersonUser
	if req.Context.Caller.Type == PersonManager {
		personType = PersonManager
	}

	// Function invocations carry no native message id; synthesize one from
	// the current timestamp.
	messageID := strconv.FormatInt(time.Now().UnixMilli(), 10)

	ev := &Event{
		Kind: EventPush,
		Type: EntityMessage,
		Message: &Message{
			ID:         messageID,
			ChatID:     chatID,
			ChatType:   chatType,
			PersonType: personType,
			PersonID:   req.Context.Caller.ID,
			PlainText:  text,
			CreatedAt:  time.Now().UnixMilli(),
		},
		Refers: &Refers{},
	}

	// Exactly one referenced-person slot, matching the resolved kind.
	if personType == PersonManager {
		ev.Refers.Manager = &ManagerRef{ID: req.Context.Caller.ID}
	} else {
		ev.Refers.User = &UserRef{ID: req.Context.Caller.ID}
	}

	return ev, nil
}
