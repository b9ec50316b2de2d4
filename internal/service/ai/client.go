package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client is the HTTP Responder: it POSTs the ReplyRequest contract to a
// remote model proxy and reads back {"reply": …}.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient targets a /api/assistant style endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Reply performs one synchronous request/response round trip. Any non-OK
// status or malformed payload surfaces as an error for the orchestrator's
// fallback path.
func (c *Client) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode assistant request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build assistant request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("assistant endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant endpoint returned status %d: %w", resp.StatusCode, ErrModelRejected)
	}

	var payload struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("malformed assistant response: %w", err)
	}
	if payload.Reply == "" {
		return "", errors.New("assistant response missing reply")
	}
	return payload.Reply, nil
}
