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

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient calls the Google Gemini generateContent API.
//
// Gemini has no dedicated system slot and uses a user/model role pair, so the
// system prompt is folded in as the opening user message followed by a short
// priming reply, and assistant turns are remapped to the "model" role.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeminiClient creates a client for the given model.
func NewGeminiClient(apiKey, model string, logger *zap.Logger) *GeminiClient {
	if model == "" {
		model = "gemini-pro"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements Provider.
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt string, messages []Message) (string, error) {
	c.logger.Debug("calling gemini",
		zap.String("model", c.model),
		zap.Int("messages", len(messages)),
	)

	payload := geminiRequest{Contents: c.buildContents(systemPrompt, messages)}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		return "", fmt.Errorf("gemini api error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode response body: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("gemini api error: %s", decoded.Error.Message)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contained no candidates")
	}

	text := decoded.Candidates[0].Content.Parts[0].Text
	c.logger.Debug("gemini reply received", zap.Int("chars", len(text)))
	return text, nil
}

// buildContents converts the conversation into Gemini wire order: system
// prompt as the opening user message, a priming model reply, then the history
// with assistant turns remapped to "model".
func (c *GeminiClient) buildContents(systemPrompt string, messages []Message) []geminiContent {
	contents := make([]geminiContent, 0, len(messages)+2)
	if systemPrompt != "" {
		contents = append(contents,
			geminiContent{Role: "user", Parts: []geminiPart{{Text: systemPrompt}}},
			geminiContent{Role: "model", Parts: []geminiPart{{Text: "Understood. I'm ready to start the task."}}},
		)
	}
	for _, m := range messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	return contents
}
