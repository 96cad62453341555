// Package ai wraps the external multimodal model behind the three calls the
// platform needs: issue classification, pairwise duplicate comparison, and
// the support chat assistant.
package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used unless MYVOICE_MODEL overrides it.
const DefaultModel = "claude-sonnet-4-5-20250929"

const maxResponseTokens = 1024

// messageAPI is the slice of the Anthropic SDK the client uses. Tests
// substitute a fake.
type messageAPI interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Client issues requests to the external model. All public methods degrade
// to deterministic fallbacks instead of returning errors to callers: model
// failure must never block the user flow.
type Client struct {
	messages messageAPI
	model    string
}

// Config holds client configuration.
type Config struct {
	APIKey string // if empty, read from ANTHROPIC_API_KEY
	Model  string // if empty, MYVOICE_MODEL then DefaultModel
}

// NewClient builds a client over the real Anthropic API.
func NewClient(cfg Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = os.Getenv("MYVOICE_MODEL")
	}
	if model == "" {
		model = DefaultModel
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Client{messages: &client.Messages, model: model}, nil
}

// generate sends one user message built from the given content blocks and
// returns the concatenated text of the reply.
func (c *Client) generate(ctx context.Context, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	response, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxResponseTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
