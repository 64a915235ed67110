package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/aschepis/askai/llm"
	"gopkg.in/yaml.v3"
)

// AskConfig selects the provider and model used for questions.
type AskConfig struct {
	Provider  string `yaml:"provider,omitempty"`
	Model     string `yaml:"model,omitempty"`
	MaxTokens int64  `yaml:"max_tokens,omitempty"` // 0 leaves the provider default
}

// AnthropicConfig represents configuration for Anthropic LLM provider.
type AnthropicConfig struct {
	BaseURL   string `yaml:"base_url,omitempty"`    // Custom base URL (default: official API)
	APIKeyEnv string `yaml:"api_key_env,omitempty"` // Name of the credential holding the API key
}

// OllamaConfig represents configuration for Ollama LLM provider.
type OllamaConfig struct {
	Host      string `yaml:"host,omitempty"` // Ollama host (default: "http://localhost:11434")
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// OpenAIConfig represents configuration for OpenAI LLM provider.
type OpenAIConfig struct {
	BaseURL      string `yaml:"base_url,omitempty"`     // Custom base URL (default: official API)
	Organization string `yaml:"organization,omitempty"` // Organization ID
	APIKeyEnv    string `yaml:"api_key_env,omitempty"`
}

// Config is the askai settings file.
type Config struct {
	Ask       AskConfig       `yaml:"ask,omitempty"`
	Anthropic AnthropicConfig `yaml:"anthropic,omitempty"`
	Ollama    OllamaConfig    `yaml:"ollama,omitempty"`
	OpenAI    OpenAIConfig    `yaml:"openai,omitempty"`
	Timeout   int             `yaml:"timeout,omitempty"` // Seconds per question (default: 60)
}

// Defaults returns the settings used when no file is present. Endpoints are
// left empty so the credential lookup (OPENAI_BASE_URL, OLLAMA_HOST, ...) and
// then the public endpoints apply.
func Defaults() Config {
	return Config{
		Ask: AskConfig{
			Provider: string(llm.ProviderOllama),
			Model:    "llama3.2:3b",
		},
		Anthropic: AnthropicConfig{
			APIKeyEnv: llm.DefaultAnthropicAPIKeyEnv,
		},
		Ollama: OllamaConfig{
			APIKeyEnv: llm.DefaultOllamaAPIKeyEnv,
		},
		OpenAI: OpenAIConfig{
			APIKeyEnv: llm.DefaultOpenAIAPIKeyEnv,
		},
		Timeout: 60,
	}
}

// GetConfigPath returns the default config file path.
// Can be overridden via ASKAI_CONFIG_PATH environment variable.
func GetConfigPath() string {
	if envPath := os.Getenv("ASKAI_CONFIG_PATH"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.askai/config.yaml"
	}
	return filepath.Join(homeDir, ".askai", "config.yaml")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// Load reads the settings file at path on top of the defaults and then
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	expandedPath := expandPath(path)
	if _, err := os.Stat(expandedPath); err == nil {
		configYAML, err := os.ReadFile(expandedPath) //#nosec 304 -- intentional file read for config
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", expandedPath, err)
		}

		var fileCfg Config
		if err := yaml.Unmarshal(configYAML, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", expandedPath, err)
		}

		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides lets ASKAI_* environment variables take precedence over
// the file. Endpoint variables are resolved later by llm.ProviderRegistry.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ASKAI_PROVIDER"); v != "" {
		cfg.Ask.Provider = v
	}
	if v := os.Getenv("ASKAI_MODEL"); v != "" {
		cfg.Ask.Model = v
	}
	if v := os.Getenv("ASKAI_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ASKAI_MAX_TOKENS %q: %w", v, err)
		}
		cfg.Ask.MaxTokens = n
	}
	if v := os.Getenv("ASKAI_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ASKAI_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = n
	}
	return nil
}

// Save writes the configuration to the specified path.
func Save(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	// Ensure directory exists
	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LLMConfig returns the provider/model selection for llm calls.
func (c *Config) LLMConfig() llm.Config {
	cfg := llm.Config{
		Provider: llm.Provider(c.Ask.Provider),
		Model:    c.Ask.Model,
	}
	if c.Ask.MaxTokens != 0 {
		maxTokens := c.Ask.MaxTokens
		cfg.MaxTokens = &maxTokens
	}
	return cfg
}

// ProviderConfig returns the endpoint and credential-name settings.
func (c *Config) ProviderConfig() *llm.ProviderConfig {
	return &llm.ProviderConfig{
		AnthropicAPIKeyEnv: c.Anthropic.APIKeyEnv,
		AnthropicBaseURL:   c.Anthropic.BaseURL,
		OllamaAPIKeyEnv:    c.Ollama.APIKeyEnv,
		OllamaHost:         c.Ollama.Host,
		OpenAIAPIKeyEnv:    c.OpenAI.APIKeyEnv,
		OpenAIBaseURL:      c.OpenAI.BaseURL,
		OpenAIOrg:          c.OpenAI.Organization,
	}
}

// TimeoutDuration returns the per-question timeout, or 0 for none.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Timeout) * time.Second
}
