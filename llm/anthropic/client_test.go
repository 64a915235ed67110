package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aschepis/askai/llm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messageBody = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-2",
  "content": [{"type": "text", "text": "Rust is great"}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 4}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewAnthropicClient(&llm.ClientKey{
		Provider: llm.ProviderAnthropic,
		Model:    "claude-2",
		APIKey:   "test-key",
		BaseURL:  server.URL,
	}, server.Client(), zerolog.Nop())
	require.NoError(t, err)
	return client
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func askRequest(system *string, maxTokens *int64) *llm.Request {
	return llm.BuildRequest(llm.Config{Provider: llm.ProviderAnthropic, Model: "claude-2", MaxTokens: maxTokens}, llm.Question{
		SystemPrompt: system,
		Messages:     []llm.Turn{{Input: "Hi", Output: "Hello"}},
		NewPrompt:    "Why Rust?",
	})
}

func TestNewAnthropicClient_RequiresKey(t *testing.T) {
	_, err := NewAnthropicClient(&llm.ClientKey{Model: "claude-2"}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestSynchronous_Success(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		respond(http.StatusOK, messageBody)(w, r)
	})

	system := "You are terse."
	maxTokens := int64(80)
	resp, err := client.Synchronous(context.Background(), askRequest(&system, &maxTokens))
	require.NoError(t, err)
	assert.Equal(t, "Rust is great", resp.Text)
	assert.Equal(t, "end_turn", resp.StopReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, int64(10), resp.Usage.InputTokens)
	assert.Equal(t, int64(4), resp.Usage.OutputTokens)

	assert.Equal(t, "claude-2", body["model"])
	assert.EqualValues(t, 80, body["max_tokens"])

	systemBlocks, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, systemBlocks, 1)
	assert.Equal(t, "You are terse.", systemBlocks[0].(map[string]any)["text"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[1].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[2].(map[string]any)["role"])
}

func TestSynchronous_DefaultsMaxTokensAndOmitsSystem(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		respond(http.StatusOK, messageBody)(w, r)
	})

	_, err := client.Synchronous(context.Background(), askRequest(nil, nil))
	require.NoError(t, err)

	assert.EqualValues(t, DefaultMaxTokens, body["max_tokens"])
	_, hasSystem := body["system"]
	assert.False(t, hasSystem)
}

func TestSynchronous_EmptySystemPromptOmitted(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		respond(http.StatusOK, messageBody)(w, r)
	})

	empty := ""
	_, err := client.Synchronous(context.Background(), askRequest(&empty, nil))
	require.NoError(t, err)

	_, hasSystem := body["system"]
	assert.False(t, hasSystem)
}

func TestSynchronous_Errors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   llm.ErrorKind
		wantStatus int
	}{
		{
			name:       "unauthorized",
			handler:    respond(http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`),
			wantKind:   llm.ErrorKindAPI,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "overloaded",
			handler:    respond(529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`),
			wantKind:   llm.ErrorKindAPI,
			wantStatus: 529,
		},
		{
			name:     "no text content",
			handler:  respond(http.StatusOK, `{"id":"msg_02","type":"message","role":"assistant","model":"claude-2","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`),
			wantKind: llm.ErrorKindModel,
		},
		{
			name:     "malformed json",
			handler:  respond(http.StatusOK, `{"content": [`),
			wantKind: llm.ErrorKindUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Synchronous(context.Background(), askRequest(nil, nil))
			require.Error(t, err)

			var llmErr *llm.Error
			require.ErrorAs(t, err, &llmErr)
			assert.Equal(t, tt.wantKind, llmErr.Kind)
			assert.Equal(t, tt.wantStatus, llmErr.StatusCode)
			if tt.wantKind != llm.ErrorKindUnexpected {
				assert.Equal(t, "claude-2", llmErr.ModelName)
			}
		})
	}
}

func TestSynchronous_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewAnthropicClient(&llm.ClientKey{Model: "claude-2", APIKey: "k", BaseURL: url}, nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Synchronous(context.Background(), askRequest(nil, nil))
	assert.True(t, llm.IsAPIFailure(err))
}

func TestToMessageParams_DropsSystem(t *testing.T) {
	params := ToMessageParams([]llm.Message{
		llm.NewTextMessage(llm.RoleSystem, "sys"),
		llm.NewTextMessage(llm.RoleUser, "u"),
	})
	assert.Len(t, params, 1)
}
