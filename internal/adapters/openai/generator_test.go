package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("Should send the prompt and return the first choice", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, req openai.ChatCompletionRequest) {
			assert.Equal(t, "gpt-4o-mini", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
			assert.Equal(t, "analyze this", req.Messages[1].Content)
			require.NotNil(t, req.ResponseFormat)
			assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
				ID: "chatcmpl-1",
				Choices: []openai.ChatCompletionChoice{{
					Message: openai.ChatCompletionMessage{
						Role:    openai.ChatMessageRoleAssistant,
						Content: `{"score": 12}`,
					},
					FinishReason: openai.FinishReasonStop,
				}},
			})
		})

		gen, err := NewGenerator("test-key", srv.URL, "gpt-4o-mini", 500, 0.2, 0.9, zap.NewNop())
		require.NoError(t, err)

		text, err := gen.Generate(context.Background(), "analyze this")
		require.NoError(t, err)
		assert.Equal(t, `{"score": 12}`, text)
	})

	t.Run("Should fail when no choices are returned", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "chatcmpl-2"})
		})

		gen, err := NewGenerator("test-key", srv.URL, "gpt-4o-mini", 500, 0.2, 0.9, zap.NewNop())
		require.NoError(t, err)

		_, err = gen.Generate(context.Background(), "analyze this")
		assert.Error(t, err)
	})

	t.Run("Should surface API errors", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded", "type": "insufficient_quota"}}`))
		})

		gen, err := NewGenerator("test-key", srv.URL, "gpt-4o-mini", 500, 0.2, 0.9, zap.NewNop())
		require.NoError(t, err)

		_, err = gen.Generate(context.Background(), "analyze this")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}

func TestNewGenerator(t *testing.T) {
	t.Run("Should require an API key", func(t *testing.T) {
		_, err := NewGenerator("", "", "gpt-4o-mini", 500, 0.2, 0.9, zap.NewNop())
		assert.Error(t, err)
	})
}
