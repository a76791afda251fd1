package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResponseText(t *testing.T) {
	t.Run("Should concatenate text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{
					genai.Text(`{"score": 85, `),
					genai.Text(`"verdict": "PELIGROSO"}`),
				}},
			}},
		}

		text, err := responseText(resp)
		require.NoError(t, err)
		assert.Equal(t, `{"score": 85, "verdict": "PELIGROSO"}`, text)
	})

	t.Run("Should fail on a response without candidates", func(t *testing.T) {
		_, err := responseText(&genai.GenerateContentResponse{})
		assert.Error(t, err)

		_, err = responseText(nil)
		assert.Error(t, err)
	})

	t.Run("Should report the finish reason of a blocked candidate", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}

		_, err := responseText(resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "finish reason")
	})

	t.Run("Should fail when no part carries text", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
			}},
		}

		_, err := responseText(resp)
		assert.Error(t, err)
	})
}

func TestNewGenerator(t *testing.T) {
	t.Run("Should require an API key", func(t *testing.T) {
		_, err := NewGenerator("", "gemini-1.5-flash", 1000, 0.2, 0.9, zap.NewNop())
		assert.Error(t, err)
	})
}
