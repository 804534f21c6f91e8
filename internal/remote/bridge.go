// Package remote implements the bridge to an external tool server. Remote
// tools are normalized into the same descriptor and result shapes as local
// tools, so the loop and the model cannot tell them apart.
//
// Every operation fails soft: a tool server being unreachable must never
// abort agent startup, and a failed invocation is reported back to the model
// as a failing observation it can react to.
package remote

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

	"github.com/reagent-dev/reagent/internal/agent"
)

// Bridge discovers and invokes tools over the HTTP tool-server contract:
// GET <base>/tools and POST <base>/execute/<name>.
type Bridge struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Bridge for the given server base URL
// (e.g. "http://localhost:7342").
func New(baseURL string, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Discover fetches the server's tool descriptors. Any failure (network,
// non-2xx status, malformed JSON) logs a warning and yields an empty slice.
func (b *Bridge) Discover(ctx context.Context) []agent.Descriptor {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/tools", nil)
	if err != nil {
		b.logger.Warn("building discovery request failed", zap.Error(err))
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.Warn("tool discovery failed", zap.String("server", b.baseURL), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.logger.Warn("reading discovery response failed", zap.Error(err))
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b.logger.Warn("tool discovery returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("server", b.baseURL),
		)
		return nil
	}

	var descriptors []agent.Descriptor
	if err := json.Unmarshal(body, &descriptors); err != nil {
		b.logger.Warn("decoding discovery response failed", zap.Error(err))
		return nil
	}

	b.logger.Info("discovered remote tools",
		zap.Int("count", len(descriptors)),
		zap.String("server", b.baseURL),
	)
	return descriptors
}

// Invoke executes a remote tool. Failures come back as a failing ToolResult
// so the loop can report them to the model as an ordinary observation.
func (b *Bridge) Invoke(ctx context.Context, name string, params map[string]any) agent.ToolResult {
	buf, err := json.Marshal(params)
	if err != nil {
		return agent.Fail(fmt.Sprintf("marshal parameters for %s: %v", name, err))
	}

	url := b.baseURL + "/execute/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return agent.Fail(fmt.Sprintf("building request for %s: %v", name, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.Warn("remote tool call failed", zap.String("tool", name), zap.Error(err))
		return agent.Fail(fmt.Sprintf("remote tool %s: %v", name, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return agent.Fail(fmt.Sprintf("reading response for %s: %v", name, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b.logger.Warn("remote tool returned error status",
			zap.String("tool", name),
			zap.Int("status", resp.StatusCode),
		)
		return agent.Fail(fmt.Sprintf("remote tool %s returned status %d: %s",
			name, resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var result agent.ToolResult
	if err := json.Unmarshal(body, &result); err != nil {
		return agent.Fail(fmt.Sprintf("remote tool %s returned invalid JSON: %v", name, err))
	}

	b.logger.Debug("remote tool executed",
		zap.String("tool", name),
		zap.Bool("success", result.Success()),
	)
	return result
}
