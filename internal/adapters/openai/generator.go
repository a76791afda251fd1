package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = "You are a phishing analysis system. Respond only with JSON."

// Generator is an implementation of the core.Generator interface using the
// OpenAI chat completions API or any server compatible with it
type Generator struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGenerator creates a new OpenAI generator. An empty baseURL selects the
// public OpenAI endpoint.
func NewGenerator(
	apiKey string,
	baseURL string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientConfig),
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}, nil
}

// Generate sends the prompt as a chat completion and returns the reply
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from OpenAI")
	}

	g.logger.Debug("OpenAI response received",
		zap.String("model", g.modelName),
		zap.String("id", resp.ID),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}
