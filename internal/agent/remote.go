package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RemoteRuntime talks to an agent runtime over HTTP. The runtime answers a
// POST with a newline-delimited JSON stream of reply chunks, closing the
// stream when the turn is done.
type RemoteRuntime struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewRemoteRuntime creates a runtime client for the given endpoint. token
// may be empty for unauthenticated runtimes.
func NewRemoteRuntime(endpoint, token string) *RemoteRuntime {
	return &RemoteRuntime{
		endpoint: endpoint,
		token:    token,
		// No overall timeout: turns stream for as long as the agent works.
		// Cancellation comes from ctx.
		httpClient: &http.Client{},
	}
}

var _ Runtime = (*RemoteRuntime)(nil)

// Run executes one agent turn, invoking deliver per streamed chunk.
func (r *RemoteRuntime) Run(ctx context.Context, req Request, deliver DeliverFunc) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("agent runtime: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("agent runtime: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	chunks := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var reply Reply
		if err := json.Unmarshal(line, &reply); err != nil {
			slog.Warn("skipping malformed reply chunk",
				"run_id", req.RunID, "error", err)
			continue
		}
		deliver(reply)
		chunks++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("agent runtime stream: %w", err)
	}

	slog.Debug("agent turn complete",
		"run_id", req.RunID, "chunks", chunks, "elapsed", time.Since(start))
	return nil
}
