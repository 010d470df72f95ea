package channeltalk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.channel.io"
	probeTimeout   = 5 * time.Second
)

// Client talks to the Channel Talk open API for one account. All requests
// authenticate with the account's static key/secret header pair.
type Client struct {
	accessKey    string
	accessSecret string
	botName      string
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// NewClient creates an API client for one account. baseURL may be empty to
// use the production endpoint.
func NewClient(accessKey, accessSecret, botName, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		accessKey:    accessKey,
		accessSecret: accessSecret,
		botName:      botName,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		// The open API allows bursts but sustained flooding gets the key
		// throttled; pace outbound sends to 5/s.
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

type sendMessageRequest struct {
	Blocks []Block `json:"blocks"`
}

type sendMessageResponse struct {
	Message struct {
		ID string `json:"id"`
	} `json:"message"`
}

// SendText posts a text message to a chat. group selects the team-group
// endpoint over the customer-chat endpoint. Returns the platform message id.
func (c *Client) SendText(ctx context.Context, chatID, text string, group bool) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	path := fmt.Sprintf("/open/v5/user-chats/%s/messages", url.PathEscape(chatID))
	if group {
		path = fmt.Sprintf("/open/v5/groups/%s/messages", url.PathEscape(chatID))
	}

	body, err := json.Marshal(sendMessageRequest{Blocks: TextToBlocks(text)})
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}

	endpoint := c.baseURL + path
	if c.botName != "" {
		endpoint += "?botName=" + url.QueryEscape(c.botName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setAuthHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("send message: status %d: %s", resp.StatusCode, Truncate(string(respBody), 200))
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		// Delivery succeeded; only the id extraction failed.
		return "", nil
	}
	return parsed.Message.ID, nil
}

// Probe verifies the account credentials against the API. Used at account
// start so a bad key surfaces in the logs immediately instead of on the
// first reply.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/open/v5/channels", nil)
	if err != nil {
		return err
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("probe: credentials rejected (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("probe: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("x-access-key", c.accessKey)
	req.Header.Set("x-access-secret", c.accessSecret)
}
