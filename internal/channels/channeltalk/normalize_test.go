package channeltalk

import (
	"errors"
	"testing"
)

func TestNormalizeFunctionRequest(t *testing.T) {
	t.Run("nested shape", func(t *testing.T) {
		req := &FunctionRequest{
			Params: FunctionParams{
				Chat:  &ParamChat{ID: "chat-1", Type: "group"},
				Input: &ParamInput{Value: "  hello  "},
			},
			Context: FunctionContext{
				Caller: Caller{ID: "mgr-1", Type: "manager"},
			},
		}

		ev, err := NormalizeFunctionRequest(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.Kind != EventPush || ev.Type != EntityMessage {
			t.Errorf("envelope = %s/%s, want push/message", ev.Kind, ev.Type)
		}
		msg := ev.Message
		if msg.ChatID != "chat-1" || msg.ChatType != "group" {
			t.Errorf("chat = %s/%s", msg.ChatID, msg.ChatType)
		}
		if msg.PlainText != "hello" {
			t.Errorf("text = %q, want trimmed %q", msg.PlainText, "hello")
		}
		if msg.PersonType != PersonManager || msg.PersonID != "mgr-1" {
			t.Errorf("person = %s/%s", msg.PersonType, msg.PersonID)
		}
		if msg.ID == "" {
			t.Error("expected synthesized message id")
		}
		if ev.Refers.Manager == nil || ev.Refers.Manager.ID != "mgr-1" {
			t.Errorf("refers.manager = %+v", ev.Refers.Manager)
		}
		if ev.Refers.User != nil {
			t.Error("refers.user must be empty for a manager caller")
		}
	})

	t.Run("nested fields win over flat legacy fields", func(t *testing.T) {
		req := &FunctionRequest{
			Params: FunctionParams{
				Chat:   &ParamChat{ID: "nested-chat"},
				Input:  &ParamInput{Value: "nested input"},
				ChatID: "flat-chat",
				Value:  "flat input",
			},
		}
		ev, err := NormalizeFunctionRequest(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.Message.ChatID != "nested-chat" {
			t.Errorf("chat id = %q, want nested", ev.Message.ChatID)
		}
		if ev.Message.PlainText != "nested input" {
			t.Errorf("text = %q, want nested", ev.Message.PlainText)
		}
	})

	t.Run("flat legacy shape", func(t *testing.T) {
		req := &FunctionRequest{
			Params: FunctionParams{
				ChatID:   "chat-9",
				ChatType: "userChat",
				Value:    "legacy",
			},
			Context: FunctionContext{
				Caller: Caller{ID: "user-1", Type: "user"},
			},
		}
		ev, err := NormalizeFunctionRequest(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.Message.ChatID != "chat-9" || ev.Message.PlainText != "legacy" {
			t.Errorf("message = %+v", ev.Message)
		}
		if ev.Message.PersonType != PersonUser {
			t.Errorf("person type = %s, want user", ev.Message.PersonType)
		}
		if ev.Refers.User == nil || ev.Refers.User.ID != "user-1" {
			t.Errorf("refers.user = %+v", ev.Refers.User)
		}
		if ev.Refers.Manager != nil {
			t.Error("refers.manager must be empty for a user caller")
		}
	})

	t.Run("missing chat id", func(t *testing.T) {
		req := &FunctionRequest{
			Params: FunctionParams{Input: &ParamInput{Value: "hi"}},
		}
		if _, err := NormalizeFunctionRequest(req); !errors.Is(err, ErrMissingChatID) {
			t.Errorf("err = %v, want ErrMissingChatID", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		req := &FunctionRequest{
			Params: FunctionParams{Chat: &ParamChat{ID: "chat-1"}},
		}
		if _, err := NormalizeFunctionRequest(req); !errors.Is(err, ErrMissingInput) {
			t.Errorf("err = %v, want ErrMissingInput", err)
		}
	})

	t.Run("whitespace-only input", func(t *testing.T) {
		req := &FunctionRequest{
			Params: FunctionParams{
				Chat:  &ParamChat{ID: "chat-1"},
				Input: &ParamInput{Value: "   "},
			},
		}
		if _, err := NormalizeFunctionRequest(req); !errors.Is(err, ErrMissingInput) {
			t.Errorf("err = %v, want ErrMissingInput", err)
		}
	})
}
