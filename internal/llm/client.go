package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/talentlinkco/recruitbot/internal/config"
)

// ErrModelUnavailable is returned once every model in the fallback chain
// has failed for a request. No cached or default answer is substituted.
var ErrModelUnavailable = errors.New("llm: all models in fallback chain failed")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Params struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

type Result struct {
	Model string
	Text  string
}

// Client is the generative-model boundary: one call, internally retried
// across an ordered model list.
type Client interface {
	Run(ctx context.Context, messages []Message, params Params) (Result, error)
}

type ChainClient struct {
	apiKey     string
	baseURL    string
	models     []string
	httpClient *http.Client
}

func NewChainClient(cfg *config.Config) *ChainClient {
	timeout := time.Duration(cfg.Models.TimeoutSecs) * time.Second
	return &ChainClient{
		apiKey:     cfg.Provider.APIKey,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.Provider.BaseURL), "/"),
		models:     append([]string(nil), cfg.Models.Chain...),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Run walks the model chain with identical prompt and parameters; the
// first attempt returning non-empty text wins.
func (c *ChainClient) Run(ctx context.Context, messages []Message, params Params) (Result, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return Result{}, fmt.Errorf("llm: missing api key")
	}
	if c.baseURL == "" {
		return Result{}, fmt.Errorf("llm: missing base url")
	}
	if len(c.models) == 0 {
		return Result{}, fmt.Errorf("llm: empty model chain")
	}

	var lastErr error
	for _, model := range c.models {
		text, err := c.sendChatCompletion(ctx, model, messages, params)
		if err == nil && strings.TrimSpace(text) != "" {
			return Result{Model: model, Text: text}, nil
		}
		if err == nil {
			err = fmt.Errorf("model %s returned empty text", model)
		}
		lastErr = err
		log.Printf("[llm] model %s failed, trying next: %v", model, err)
		if ctx.Err() != nil {
			break
		}
	}
	return Result{}, fmt.Errorf("%w: %v", ErrModelUnavailable, lastErr)
}

func (c *ChainClient) sendChatCompletion(ctx context.Context, model string, messages []Message, params Params) (string, error) {
	body := map[string]any{
		"model":    model,
		"messages": messages,
	}
	if params.MaxTokens > 0 {
		body["max_tokens"] = params.MaxTokens
	}
	if params.Temperature > 0 {
		body["temperature"] = params.Temperature
	}
	if params.TopP > 0 {
		body["top_p"] = params.TopP
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}
