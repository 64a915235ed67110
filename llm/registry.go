package llm

import (
	"fmt"
	"strings"
)

const (
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultAnthropicBaseURL = "https://api.anthropic.com/"
	DefaultOllamaHost       = "http://localhost:11434"

	DefaultOpenAIAPIKeyEnv    = "OPENAI_API_KEY"
	DefaultAnthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	DefaultOllamaAPIKeyEnv    = "OLLAMA_API_KEY"

	openAIChatSuffix      = "/chat/completions"
	anthropicMessagesPath = "/v1/messages"
)

// ClientKey carries everything a provider client needs for one call.
type ClientKey struct {
	Provider     Provider
	Model        string
	APIKey       string // For credential-based providers
	Host         string // For Ollama
	BaseURL      string // For OpenAI and Anthropic
	Organization string // For OpenAI
}

// ProviderConfig holds endpoint settings and the names of the credentials
// each provider reads. Empty fields fall back to the lookup and then to the
// public endpoints.
type ProviderConfig struct {
	AnthropicAPIKeyEnv string
	AnthropicBaseURL   string
	OllamaAPIKeyEnv    string
	OllamaHost         string
	OpenAIAPIKeyEnv    string
	OpenAIBaseURL      string
	OpenAIOrg          string
}

// ProviderRegistry resolves a Config into a ClientKey. It is read-only after
// construction and safe for concurrent use.
type ProviderRegistry struct {
	config *ProviderConfig
	lookup CredentialLookup
}

// NewProviderRegistry creates a new ProviderRegistry. A nil config uses the
// defaults and a nil lookup reads the process environment.
func NewProviderRegistry(providerConfig *ProviderConfig, lookup CredentialLookup) *ProviderRegistry {
	if providerConfig == nil {
		providerConfig = &ProviderConfig{}
	}
	if lookup == nil {
		lookup = EnvLookup
	}
	return &ProviderRegistry{
		config: providerConfig,
		lookup: lookup,
	}
}

// CredentialName returns the name of the credential the provider reads.
func (r *ProviderRegistry) CredentialName(provider Provider) string {
	switch provider {
	case ProviderAnthropic:
		return orDefault(r.config.AnthropicAPIKeyEnv, DefaultAnthropicAPIKeyEnv)
	case ProviderOllama:
		return orDefault(r.config.OllamaAPIKeyEnv, DefaultOllamaAPIKeyEnv)
	case ProviderOpenAI:
		return orDefault(r.config.OpenAIAPIKeyEnv, DefaultOpenAIAPIKeyEnv)
	default:
		return ""
	}
}

// RequiresCredential reports whether a call to provider must carry a secret.
func (r *ProviderRegistry) RequiresCredential(provider Provider) bool {
	return provider == ProviderAnthropic || provider == ProviderOpenAI
}

// IsProviderConfigured checks if a provider has the credential it needs.
func (r *ProviderRegistry) IsProviderConfigured(provider Provider) bool {
	if !provider.Valid() {
		return false
	}
	if !r.RequiresCredential(provider) {
		return true
	}
	_, ok := r.lookup(r.CredentialName(provider))
	return ok
}

// Resolve validates cfg and returns the ClientKey for its provider. A missing
// credential is an API failure so callers can fail before any network call.
func (r *ProviderRegistry) Resolve(cfg Config) (*ClientKey, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewUnexpectedFailure(fmt.Sprintf("invalid configuration: %v", err), err)
	}

	key := &ClientKey{
		Provider: cfg.Provider,
		Model:    cfg.Model,
	}

	credName := r.CredentialName(cfg.Provider)
	apiKey, ok := r.lookup(credName)
	if !ok && r.RequiresCredential(cfg.Provider) {
		return nil, NewAPIFailure(cfg.Model, fmt.Sprintf("missing or invalid %s", credName), 0, nil)
	}
	key.APIKey = apiKey

	switch cfg.Provider {
	case ProviderAnthropic:
		key.BaseURL = r.firstSetting(r.config.AnthropicBaseURL, "ANTHROPIC_BASE_URL")
		if key.BaseURL == "" {
			if full, ok := r.lookup("ANTHROPIC_API_URL"); ok {
				key.BaseURL = strings.TrimSuffix(strings.TrimRight(full, "/"), anthropicMessagesPath)
			}
		}
		key.BaseURL = orDefault(key.BaseURL, DefaultAnthropicBaseURL)

	case ProviderOllama:
		key.Host = orDefault(r.firstSetting(r.config.OllamaHost, "OLLAMA_HOST"), DefaultOllamaHost)

	case ProviderOpenAI:
		key.BaseURL = r.firstSetting(r.config.OpenAIBaseURL, "OPENAI_BASE_URL")
		if key.BaseURL == "" {
			if full, ok := r.lookup("OPENAI_API_URL"); ok {
				key.BaseURL = strings.TrimSuffix(strings.TrimRight(full, "/"), openAIChatSuffix)
			}
		}
		key.BaseURL = orDefault(key.BaseURL, DefaultOpenAIBaseURL)
		key.Organization = r.firstSetting(r.config.OpenAIOrg, "OPENAI_ORG_ID")
	}

	return key, nil
}

// firstSetting returns the explicit value if set, otherwise the looked-up one.
func (r *ProviderRegistry) firstSetting(explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	v, _ := r.lookup(name)
	return v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
