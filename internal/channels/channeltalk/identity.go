package channeltalk

// Identity is the resolved sender and chat identity of an event, normalized
// across the platform's two disjoint identity graphs (staff directory vs
// customer directory).
type Identity struct {
	SenderID      string
	SenderName    string
	SenderContact string
	ChatID        string
	IsGroup       bool
}

// ResolveIdentity extracts sender and chat identity from a canonical event.
// Returns ErrMissingChatID when neither the message nor the referenced chat
// carries a chat id; such events are dropped by the caller.
func ResolveIdentity(ev *Event) (Identity, error) {
	msg := ev.Message

	chatID := msg.ChatID
	if chatID == "" && ev.Refers != nil && ev.Refers.Chat != nil {
		chatID = ev.Refers.Chat.ID
	}
	if chatID == "" {
		return Identity{}, ErrMissingChatID
	}

	id := Identity{
		ChatID:  chatID,
		IsGroup: msg.IsGroup(),
	}

	// Team-member path: the staff directory record wins for display fields.
	if msg.PersonType == PersonManager && ev.Refers != nil && ev.Refers.Manager != nil {
		mgr := ev.Refers.Manager
		id.SenderID = msg.PersonID
		if id.SenderID == "" {
			id.SenderID = mgr.ID
		}
		id.SenderName = mgr.Name
		if id.SenderName == "" {
			id.SenderName = "Manager"
		}
		return id, nil
	}

	// Customer path.
	id.SenderID = msg.PersonID
	var user *UserRef
	if ev.Refers != nil {
		user = ev.Refers.User
	}
	if id.SenderID == "" && user != nil {
		id.SenderID = user.ID
	}

	switch {
	case user != nil && user.Profile != nil && user.Profile.Name != "":
		id.SenderName = user.Profile.Name
	case user != nil && user.Name != "":
		id.SenderName = user.Name
	case ev.Refers != nil && ev.Refers.Chat != nil && ev.Refers.Chat.Name != "":
		id.SenderName = ev.Refers.Chat.Name
	default:
		id.SenderName = "User"
	}

	if user != nil {
		id.SenderContact = user.Profile.Contact()
	}

	return id, nil
}
