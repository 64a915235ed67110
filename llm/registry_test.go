package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderRegistry_IsProviderConfigured(t *testing.T) {
	// Anthropic and OpenAI require a credential
	registry := NewProviderRegistry(nil, MapLookup(nil))
	assert.False(t, registry.IsProviderConfigured(ProviderAnthropic))
	assert.False(t, registry.IsProviderConfigured(ProviderOpenAI))

	// Ollama is always configured (no API key required)
	assert.True(t, registry.IsProviderConfigured(ProviderOllama))

	registry2 := NewProviderRegistry(nil, MapLookup(map[string]string{
		"ANTHROPIC_API_KEY": "test-key",
		"OPENAI_API_KEY":    "test-key",
	}))
	assert.True(t, registry2.IsProviderConfigured(ProviderAnthropic))
	assert.True(t, registry2.IsProviderConfigured(ProviderOpenAI))

	assert.False(t, registry2.IsProviderConfigured(Provider("gemini")))
}

func TestProviderRegistry_EmptyCredentialIsMissing(t *testing.T) {
	registry := NewProviderRegistry(nil, MapLookup(map[string]string{"OPENAI_API_KEY": ""}))
	assert.False(t, registry.IsProviderConfigured(ProviderOpenAI))
}

func TestProviderRegistry_Resolve_MissingCredential(t *testing.T) {
	registry := NewProviderRegistry(nil, MapLookup(nil))

	for _, p := range []Provider{ProviderOpenAI, ProviderAnthropic} {
		t.Run(p.String(), func(t *testing.T) {
			_, err := registry.Resolve(Config{Provider: p, Model: "some-model"})
			require.Error(t, err)
			assert.True(t, IsAPIFailure(err))

			var llmErr *Error
			require.ErrorAs(t, err, &llmErr)
			assert.Equal(t, "some-model", llmErr.ModelName)
			assert.Contains(t, llmErr.Detail, registry.CredentialName(p))
		})
	}
}

func TestProviderRegistry_Resolve_OllamaWithoutCredential(t *testing.T) {
	registry := NewProviderRegistry(nil, MapLookup(nil))

	key, err := registry.Resolve(Config{Provider: ProviderOllama, Model: "llama3.2:3b"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOllamaHost, key.Host)
	assert.Empty(t, key.APIKey)
}

func TestProviderRegistry_Resolve_Defaults(t *testing.T) {
	registry := NewProviderRegistry(nil, MapLookup(map[string]string{
		"ANTHROPIC_API_KEY": "ant-key",
		"OPENAI_API_KEY":    "oa-key",
	}))

	key, err := registry.Resolve(Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, ClientKey{Provider: ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "oa-key", BaseURL: DefaultOpenAIBaseURL}, *key)

	key, err = registry.Resolve(Config{Provider: ProviderAnthropic, Model: "claude-haiku-4-5"})
	require.NoError(t, err)
	assert.Equal(t, ClientKey{Provider: ProviderAnthropic, Model: "claude-haiku-4-5", APIKey: "ant-key", BaseURL: DefaultAnthropicBaseURL}, *key)
}

func TestProviderRegistry_Resolve_EndpointOverrides(t *testing.T) {
	lookup := MapLookup(map[string]string{
		"OPENAI_API_KEY":    "oa-key",
		"OPENAI_API_URL":    "http://127.0.0.1:9000/v1/chat/completions",
		"OPENAI_ORG_ID":     "org-123",
		"ANTHROPIC_API_KEY": "ant-key",
		"ANTHROPIC_API_URL": "http://127.0.0.1:9001/v1/messages",
		"OLLAMA_HOST":       "http://gpu-box:11434",
	})
	registry := NewProviderRegistry(nil, lookup)

	key, err := registry.Resolve(Config{Provider: ProviderOpenAI, Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/v1", key.BaseURL)
	assert.Equal(t, "org-123", key.Organization)

	key, err = registry.Resolve(Config{Provider: ProviderAnthropic, Model: "claude-2"})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9001", key.BaseURL)

	key, err = registry.Resolve(Config{Provider: ProviderOllama, Model: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", key.Host)
}

func TestProviderRegistry_Resolve_ExplicitConfigWins(t *testing.T) {
	lookup := MapLookup(map[string]string{
		"MY_OPENAI_KEY":   "custom",
		"OPENAI_BASE_URL": "http://from-env/v1",
	})
	registry := NewProviderRegistry(&ProviderConfig{
		OpenAIAPIKeyEnv: "MY_OPENAI_KEY",
		OpenAIBaseURL:   "http://explicit/v1",
	}, lookup)

	key, err := registry.Resolve(Config{Provider: ProviderOpenAI, Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "custom", key.APIKey)
	assert.Equal(t, "http://explicit/v1", key.BaseURL)
}

func TestProviderRegistry_Resolve_InvalidConfig(t *testing.T) {
	registry := NewProviderRegistry(nil, MapLookup(nil))
	zero := int64(0)

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "unknown provider", cfg: Config{Provider: "gemini", Model: "x"}, want: "provider must be one of"},
		{name: "missing model", cfg: Config{Provider: ProviderOllama}, want: "model is required"},
		{name: "zero max tokens", cfg: Config{Provider: ProviderOllama, Model: "x", MaxTokens: &zero}, want: "max_tokens must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.Resolve(tt.cfg)
			require.Error(t, err)
			assert.True(t, IsUnexpectedFailure(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestChainLookup(t *testing.T) {
	lookup := ChainLookup(
		nil,
		MapLookup(map[string]string{"A": "from-first"}),
		MapLookup(map[string]string{"A": "from-second", "B": "b"}),
	)

	v, ok := lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "from-first", v)

	v, ok = lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = lookup("C")
	assert.False(t, ok)
}

func TestEnvLookup(t *testing.T) {
	t.Setenv("ASKAI_TEST_CREDENTIAL", "secret")
	v, ok := EnvLookup("ASKAI_TEST_CREDENTIAL")
	assert.True(t, ok)
	assert.Equal(t, "secret", v)

	t.Setenv("ASKAI_TEST_CREDENTIAL", "")
	_, ok = EnvLookup("ASKAI_TEST_CREDENTIAL")
	assert.False(t, ok)
}
