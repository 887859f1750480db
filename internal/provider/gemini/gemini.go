// Package gemini implements provider.Provider on the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"os"
	"sync"

	"google.golang.org/genai"
)

// Client defines the slice of the Gemini SDK this package uses.
// This abstraction allows for easier testing and potential future implementations.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// RealClient wraps the official SDK client to satisfy Client.
type RealClient struct {
	client *genai.Client
}

// NewRealClient creates a RealClient from an SDK client.
func NewRealClient(client *genai.Client) *RealClient {
	return &RealClient{client: client}
}

// GenerateContent calls the SDK's GenerateContent method.
func (c *RealClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}

// Provider implements provider.Provider for Google Gemini.
type Provider struct {
	client Client

	mu    sync.RWMutex
	model string
}

// New creates a Provider with the given client and model name.
func New(client Client, model string) *Provider {
	return &Provider{client: client, model: model}
}

// NewFromEnv builds a Provider from the GEMINI_API_KEY environment variable.
// Returns an error when the key is missing or the SDK client cannot be built.
func NewFromEnv(ctx context.Context, model string) (*Provider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return New(NewRealClient(client), model), nil
}

// Generate sends the prompt as a single user turn and concatenates the text
// parts of the first candidate. An empty response is returned as ("", nil);
// the caller decides how to surface it.
func (p *Provider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	resp, err := p.client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}

// Model returns the currently active model name.
func (p *Provider) Model() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// SetModel changes the active model at runtime.
func (p *Provider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}
