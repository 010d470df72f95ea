package channeltalk

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// Route prefixes owned by this channel.
const (
	webhookPrefix  = "/webhooks/channel-talk/"
	functionPrefix = "/functions/channel-talk/"
)

// maxBodyBytes caps inbound payloads at 5 MiB. Larger bodies get 413.
const maxBodyBytes = 5 << 20

// functionAck is the synchronous function-endpoint response. The real reply
// arrives asynchronously in the chat.
const functionAck = "Request received. A reply will follow in this chat."

// HandleWebhook serves POST /webhooks/channel-talk/{accountId}. The return
// value reports whether this handler owned the request path; false means the
// caller should keep routing.
//
// The response is written before any processing happens: the platform only
// needs delivery confirmation, and retries on slow acks would duplicate
// events.
func (c *Channel) HandleWebhook(w http.ResponseWriter, r *http.Request) bool {
	accountID, ok := strings.CutPrefix(r.URL.Path, webhookPrefix)
	if !ok {
		return false
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return true
	}
	if accountID == "" || strings.Contains(accountID, "/") {
		writeError(w, http.StatusNotFound, "unknown account")
		return true
	}
	if _, registered := c.registry.Lookup(accountID); !registered {
		writeError(w, http.StatusNotFound, "unknown account")
		return true
	}

	var ev Event
	if !decodeBody(w, r, &ev) {
		return true
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("{}"))

	go c.processEvent(accountID, &ev)
	return true
}

// HandleFunction serves PUT /functions/channel-talk/{accountId}, the
// command-invocation callback. Payloads are normalized into the canonical
// event shape and fed through the same pipeline as webhook pushes.
func (c *Channel) HandleFunction(w http.ResponseWriter, r *http.Request) bool {
	accountID, ok := strings.CutPrefix(r.URL.Path, functionPrefix)
	if !ok {
		return false
	}

	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return true
	}
	if accountID == "" || strings.Contains(accountID, "/") {
		writeError(w, http.StatusNotFound, "unknown account")
		return true
	}
	if _, registered := c.registry.Lookup(accountID); !registered {
		writeError(w, http.StatusNotFound, "unknown account")
		return true
	}

	var req FunctionRequest
	if !decodeBody(w, r, &req) {
		return true
	}

	ev, err := NormalizeFunctionRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return true
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"result": map[string]any{
			"type":  "text",
			"value": functionAck,
		},
	})

	go c.processEvent(accountID, ev)
	return true
}

// decodeBody reads and decodes a JSON request body, writing the error
// response itself on failure. Reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return false
		}
		slog.Debug("malformed channel-talk payload", "error", err)
		writeError(w, http.StatusBadRequest, "malformed payload")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
