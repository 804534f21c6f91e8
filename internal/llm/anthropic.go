package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const anthropicBaseURL = "https://api.anthropic.com"

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAnthropicClient creates a client for the given model. The API key comes
// from the caller (typically the ANTHROPIC_API_KEY environment variable).
func NewAnthropicClient(apiKey, model string, maxTokens int, logger *zap.Logger) *AnthropicClient {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnthropicClient{
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		baseURL:    anthropicBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements Provider.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt string, messages []Message) (string, error) {
	c.logger.Debug("calling anthropic",
		zap.String("model", c.model),
		zap.Int("messages", len(messages)),
		zap.Int("systemLen", len(systemPrompt)),
	)

	payload := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages:  messages,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic api error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode response body: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("anthropic api error: %s", decoded.Error.Message)
	}
	if len(decoded.Content) == 0 {
		return "", fmt.Errorf("anthropic response contained no content blocks")
	}

	text := decoded.Content[0].Text
	c.logger.Debug("anthropic reply received", zap.Int("chars", len(text)))
	return text, nil
}
