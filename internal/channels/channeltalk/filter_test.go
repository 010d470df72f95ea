package channeltalk

import "testing"

func pushEvent(msg *Message) *Event {
	return &Event{Kind: EventPush, Type: EntityMessage, Message: msg}
}

func TestShouldProcess(t *testing.T) {
	plain := func(personType, chatType, text string) *Message {
		return &Message{
			ID:         "m1",
			ChatID:     "chat-1",
			ChatType:   chatType,
			PersonType: personType,
			PlainText:  text,
		}
	}

	tests := []struct {
		name   string
		ev     *Event
		target Target
		want   bool
	}{
		{
			name: "customer direct message",
			ev:   pushEvent(plain(PersonUser, "userChat", "hello")),
			want: true,
		},
		{
			name: "manager direct message",
			ev:   pushEvent(plain(PersonManager, "directChat", "hello")),
			want: true,
		},
		{
			name: "bot message suppressed",
			ev:   pushEvent(plain(PersonBot, "userChat", "hello")),
			want: false,
		},
		{
			name: "non-push event",
			ev:   &Event{Kind: EventUpdate, Type: EntityMessage, Message: plain(PersonUser, "userChat", "hi")},
			want: false,
		},
		{
			name: "non-message entity",
			ev:   &Event{Kind: EventPush, Type: "chat"},
			want: false,
		},
		{
			name: "whitespace-only text",
			ev:   pushEvent(plain(PersonUser, "userChat", "  \n ")),
			want: false,
		},
		{
			name: "blocks-only message",
			ev: pushEvent(&Message{
				ID: "m2", ChatID: "chat-1", ChatType: "userChat",
				PersonType: PersonUser,
				Blocks:     []Block{{Type: "text", Value: "from blocks"}},
			}),
			want: true,
		},
		{
			name:   "group without keyword when keywords configured",
			ev:     pushEvent(plain(PersonManager, ChatTypeGroup, "just chatting")),
			target: Target{TriggerKeywords: []string{"bot"}},
			want:   false,
		},
		{
			name:   "group with keyword",
			ev:     pushEvent(plain(PersonManager, ChatTypeGroup, "hey Bot, help")),
			target: Target{TriggerKeywords: []string{"bot"}},
			want:   true,
		},
		{
			name:   "keyword matches inside a word",
			ev:     pushEvent(plain(PersonManager, ChatTypeGroup, "robotics update")),
			target: Target{TriggerKeywords: []string{"bot"}},
			want:   true,
		},
		{
			name:   "direct chat never keyword-gated",
			ev:     pushEvent(plain(PersonUser, "userChat", "no keyword here")),
			target: Target{TriggerKeywords: []string{"bot"}},
			want:   true,
		},
		{
			name: "group without configured keywords",
			ev:   pushEvent(plain(PersonManager, ChatTypeGroup, "anything")),
			want: true,
		},
		{
			name:   "group outside allow-list",
			ev:     pushEvent(plain(PersonManager, ChatTypeGroup, "hello")),
			target: Target{GroupAllowList: []string{"other-chat"}},
			want:   false,
		},
		{
			name:   "group inside allow-list",
			ev:     pushEvent(plain(PersonManager, ChatTypeGroup, "hello")),
			target: Target{GroupAllowList: []string{"chat-1"}},
			want:   true,
		},
		{
			name: "nil event",
			ev:   nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldProcess(tt.ev, &tt.target); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}
