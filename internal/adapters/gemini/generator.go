package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Generator is an implementation of the core.Generator interface using Google Gemini
type Generator struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewGenerator creates a new Gemini generator
func NewGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	return &Generator{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate sends the prompt to Gemini and returns the generated text
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	g.logger.Debug("Gemini response received",
		zap.String("model", g.modelName),
		zap.Int("response_size", len(text)))

	return text, nil
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("empty response from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		if candidate != nil && candidate.FinishReason != genai.FinishReasonUnspecified {
			return "", fmt.Errorf("empty response from Gemini (finish reason: %s)", candidate.FinishReason)
		}
		return "", errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini response contains no text")
	}
	return sb.String(), nil
}
