package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/apply-agent/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Request is a single generation call.
type Request struct {
	// System is sent as the system instruction when non-empty.
	System string
	Prompt string
	Tier   ModelTier
	// Temperature and MaxTokens override the tier's settings when non-zero.
	Temperature float32
	MaxTokens   int32
}

// Client is an abstraction over LLM providers.
type Client interface {
	// Generate returns the model's text for req.
	Generate(ctx context.Context, req Request) (string, error)
	// GetModel returns the provider model name for a tier.
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a new LLM client based on configuration.
func NewClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey, log)
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
	log    *zap.Logger
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		log:    logger.WithFields(log),
	}, nil
}

// Generate generates text content for req.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	settings, ok := c.config.Resolve(req.Tier)
	if !ok {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}
	log := logger.WithModel(c.log, string(c.config.Provider), settings.Model)

	model := c.client.GenerativeModel(settings.Model)
	if t := firstNonZero(req.Temperature, settings.Temperature); t > 0 {
		model.SetTemperature(t)
	}
	if n := firstNonZero(req.MaxTokens, settings.MaxTokens); n > 0 {
		model.SetMaxOutputTokens(n)
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	log.Debug("generating content", zap.String("prompt", logger.TruncateForLog(req.Prompt, 200)))
	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	log.Debug("content generated", zap.Int("chars", len(text)))
	return text, nil
}

// GetModel returns the model name for a tier.
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func firstNonZero[T float32 | int32](v, fallback T) T {
	if v != 0 {
		return v
	}
	return fallback
}

// extractTextFromResponse extracts text from Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
