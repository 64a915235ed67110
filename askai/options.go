package askai

import (
	"net/http"

	"github.com/aschepis/askai/llm"
	"github.com/rs/zerolog"
)

// Option configures a single Ask call.
type Option func(*options)

type options struct {
	credentials    llm.CredentialLookup
	providerConfig *llm.ProviderConfig
	httpClient     *http.Client
	logger         zerolog.Logger
	middleware     []llm.Middleware
}

func newOptions(opts []Option) *options {
	o := &options{
		credentials: llm.EnvLookup,
		httpClient:  http.DefaultClient,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCredentials sets where API keys and endpoint overrides are read from.
// The default is the process environment.
func WithCredentials(lookup llm.CredentialLookup) Option {
	return func(o *options) {
		if lookup != nil {
			o.credentials = lookup
		}
	}
}

// WithProviderConfig sets base URLs, the Ollama host, the OpenAI
// organization and credential names.
func WithProviderConfig(cfg *llm.ProviderConfig) Option {
	return func(o *options) {
		o.providerConfig = cfg
	}
}

// WithHTTPClient sets the HTTP client used for the provider call. Its
// Timeout, if any, bounds the call in addition to the context.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMiddleware adds middleware around the provider call. It runs inside
// the built-in logging middleware.
func WithMiddleware(middleware ...llm.Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, middleware...)
	}
}
