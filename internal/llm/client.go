// Package llm talks to an OpenAI-compatible chat endpoint for session
// summaries and natural-language questions over command history.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/recall-sh/recall/internal/config"
)

const (
	maxTokens      = 1024
	requestTimeout = 60 * time.Second
)

// Client wraps the chat-completions API behind a single Complete call.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient builds a client from the llm section of the config. The
// OPENAI_API_KEY environment variable is the fallback when the config
// carries no key.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = envAPIKey()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("llm: no API key found; set OPENAI_API_KEY in ~/.recall/env or llm.api_key in ~/.recall/config.yaml")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Complete sends one system/user message pair and returns the model's
// text reply.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response from model %s", c.model)
	}
	return resp.Choices[0].Message.Content, nil
}

func envAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// completer is what the summarizer and answerer need from a client.
type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
