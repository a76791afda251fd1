package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// anthropicVersion is required by the Claude messages API on Bedrock
const anthropicVersion = "bedrock-2023-05-31"

// ModelInvoker is the part of the Bedrock runtime client used by Generator
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// modelFamily selects the request and response body format
type modelFamily int

const (
	familyGeneric modelFamily = iota
	familyClaudeText
	familyClaudeMessages
	familyTitan
)

// Generator is an implementation of the core.Generator interface using Amazon Bedrock
type Generator struct {
	client      ModelInvoker
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGenerator creates a new Bedrock generator
func NewGenerator(
	client ModelInvoker,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// family derives the body format from the model ID. Cross-region inference
// profiles such as "eu.anthropic.claude-3-haiku..." are matched too.
func (g *Generator) family() modelFamily {
	switch {
	case strings.Contains(g.modelID, "anthropic.claude-v2"),
		strings.Contains(g.modelID, "anthropic.claude-instant"):
		return familyClaudeText
	case strings.Contains(g.modelID, "anthropic.claude"):
		return familyClaudeMessages
	case strings.Contains(g.modelID, "amazon.titan"):
		return familyTitan
	default:
		return familyGeneric
	}
}

// Generate invokes the model with the prompt and returns its text output
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	family := g.family()

	payload, err := g.requestBody(family, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := responseText(family, resp.Body)
	if err != nil {
		return "", err
	}

	g.logger.Debug("Bedrock response received",
		zap.String("model", g.modelID),
		zap.Int("response_size", len(text)))

	return text, nil
}

func (g *Generator) requestBody(family modelFamily, prompt string) ([]byte, error) {
	switch family {
	case familyClaudeText:
		return json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": g.maxTokens,
			"temperature":          g.temperature,
			"top_p":                g.topP,
		})
	case familyClaudeMessages:
		return json.Marshal(map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"max_tokens":        g.maxTokens,
			"temperature":       g.temperature,
			"top_p":             g.topP,
			"messages": []map[string]interface{}{
				{
					"role": "user",
					"content": []map[string]string{
						{"type": "text", "text": prompt},
					},
				},
			},
		})
	case familyTitan:
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": g.maxTokens,
				"temperature":   g.temperature,
				"topP":          g.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  g.maxTokens,
			"temperature": g.temperature,
			"top_p":       g.topP,
		})
	}
}

func responseText(family modelFamily, body []byte) (string, error) {
	switch family {
	case familyClaudeText:
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil

	case familyClaudeMessages:
		var messagesResp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &messagesResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var sb strings.Builder
		for _, block := range messagesResp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		if sb.Len() == 0 {
			return "", errors.New("empty response from Claude model")
		}
		return sb.String(), nil

	case familyTitan:
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", errors.New("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil

	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		default:
			return string(body), nil
		}
	}
}
