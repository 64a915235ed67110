// Package askai asks a single question of OpenAI, Anthropic or Ollama and
// returns the answer text.
//
// Every failure is an *llm.Error of one of three kinds: the model answered
// without usable text (llm.IsModelFailure), the API could not be reached or
// refused the call (llm.IsAPIFailure), or something else went wrong
// (llm.IsUnexpectedFailure).
//
//	answer, err := askai.Ask(ctx,
//	    llm.Config{Provider: llm.ProviderAnthropic, Model: "claude-haiku-4-5"},
//	    llm.Question{NewPrompt: "Why Rust?"},
//	    askai.WithLogger(log),
//	)
package askai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aschepis/askai/llm"
	"github.com/aschepis/askai/llm/anthropic"
	"github.com/aschepis/askai/llm/ollama"
	"github.com/aschepis/askai/llm/openai"
	"github.com/rs/zerolog"
)

// Ask sends q to the provider and model selected by cfg and returns the
// answer. Configuration and credentials are checked before any network call.
// Each call builds its own client, so concurrent calls share nothing.
func Ask(ctx context.Context, cfg llm.Config, q llm.Question, opts ...Option) (string, error) {
	o := newOptions(opts)
	logger := o.logger.With().Str("component", "askai").Logger()

	registry := llm.NewProviderRegistry(o.providerConfig, o.credentials)
	key, err := registry.Resolve(cfg)
	if err != nil {
		logger.Warn().
			Str("provider", cfg.Provider.String()).
			Str("model", cfg.Model).
			Str("error_kind", string(llm.Kind(err))).
			Err(err).
			Msg("Rejected before request")
		return "", err
	}

	client, err := newClient(key, o.httpClient, logger)
	if err != nil {
		return "", llm.NewUnexpectedFailure(fmt.Sprintf("failed to create %s client: %v", key.Provider, err), err)
	}

	middleware := append([]llm.Middleware{newLoggingMiddleware(logger, key.Provider)}, o.middleware...)
	client = llm.WrapWithMiddleware(client, middleware...)

	resp, err := client.Synchronous(ctx, llm.BuildRequest(cfg, q))
	if err != nil {
		if llm.Kind(err) == "" {
			return "", llm.NewUnexpectedFailure(err.Error(), err)
		}
		return "", err
	}
	if resp == nil {
		return "", llm.NewUnexpectedFailure("no response from "+key.Provider.String(), nil)
	}

	return resp.Text, nil
}

// newClient is the single dispatch point from provider to client.
func newClient(key *llm.ClientKey, httpClient *http.Client, logger zerolog.Logger) (llm.Client, error) {
	switch key.Provider {
	case llm.ProviderAnthropic:
		return anthropic.NewAnthropicClient(key, httpClient, logger.With().Str("provider", "anthropic").Logger())
	case llm.ProviderOllama:
		return ollama.NewOllamaClient(key, httpClient, logger.With().Str("provider", "ollama").Logger())
	case llm.ProviderOpenAI:
		return openai.NewOpenAIClient(key, httpClient, logger.With().Str("provider", "openai").Logger())
	default:
		return nil, fmt.Errorf("unknown provider: %s", key.Provider)
	}
}
