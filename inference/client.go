// Package inference is the client side of the inference service: the
// sentiment scoring and chat completion endpoints the chat core calls.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kindminds/chat-core/types"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// AnalyzeSentiment scores raw message text. Any failure here means "no
// signal" to the caller; sending a message never depends on it.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (types.SentimentResult, error) {
	var res types.SentimentResult
	err := c.post(ctx, "/api/tools/sentiment", types.SentimentRequest{Text: text}, &res)
	if err != nil {
		return types.SentimentResult{}, err
	}
	return res, nil
}

// Complete requests the conversational reply for the full message
// history, category and optional sentiment hint.
func (c *Client) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	var res types.CompletionResponse
	if err := c.post(ctx, "/api/chat", req, &res); err != nil {
		return "", err
	}
	return res.Response, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
