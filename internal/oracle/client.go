package oracle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.anthropic.com/v1/messages"

// Tier identifies which invocation path produced a reply.
type Tier string

const (
	// TierText submits pre-extracted plain text (cheap path).
	TierText Tier = "text"
	// TierVision submits the raw document for direct interpretation
	// (expensive fallback path).
	TierVision Tier = "vision"
)

// Client calls the Anthropic Messages API to interpret earnings
// documents into structured fields.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	stats      *Stats
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
		stats: NewStats(time.Hour),
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint (for testing).
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// InvokeText submits extracted plain text with the prompt (cheap tier)
// and returns the raw reply text.
func (c *Client) InvokeText(ctx context.Context, prompt, text string) (string, error) {
	content := prompt + "\n\n---\n" + text
	return c.invoke(ctx, TierText, []message{
		{Role: "user", Content: content},
	})
}

// InvokeDocument submits the raw document bytes for direct
// interpretation (expensive tier) and returns the raw reply text.
func (c *Client) InvokeDocument(ctx context.Context, prompt string, doc []byte, mediaType string) (string, error) {
	if mediaType == "" {
		mediaType = "application/pdf"
	}
	blocks := []contentBlock{
		{
			Type: "document",
			Source: &blockSource{
				Type:      "base64",
				MediaType: mediaType,
				Data:      base64.StdEncoding.EncodeToString(doc),
			},
		},
		{Type: "text", Text: prompt},
	}
	return c.invoke(ctx, TierVision, []message{
		{Role: "user", Content: blocks},
	})
}

func (c *Client) invoke(ctx context.Context, tier Tier, messages []message) (string, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages:  messages,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &APIError{Kind: KindService, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &APIError{Kind: KindService, StatusCode: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	c.stats.Record(tier, time.Since(start).Milliseconds())

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &APIError{Kind: KindService, StatusCode: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	if apiResp.Error != nil {
		return "", &APIError{Kind: KindService, Message: apiResp.Error.Type + ": " + apiResp.Error.Message}
	}
	if len(apiResp.Content) == 0 {
		return "", &APIError{Kind: KindService, Message: "empty response"}
	}

	return apiResp.Content[0].Text, nil
}

// Stats returns the per-tier latency tracker.
func (c *Client) Stats() *Stats {
	return c.stats
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
