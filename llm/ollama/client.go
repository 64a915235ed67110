package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aschepis/askai/llm"
	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

// OllamaClient implements the llm.Client interface for Ollama's API.
// A client records the status of its last response, so it must not be
// shared between concurrent calls.
type OllamaClient struct {
	client    *api.Client
	model     string
	transport *statusTransport
	logger    zerolog.Logger
}

// NewOllamaClient creates a new OllamaClient from a resolved key. An API key
// is optional and, when present, is sent as a bearer token.
func NewOllamaClient(key *llm.ClientKey, httpClient *http.Client, logger zerolog.Logger) (*OllamaClient, error) {
	if key == nil {
		return nil, fmt.Errorf("client key is required")
	}

	host := key.Host
	if host == "" {
		host = llm.DefaultOllamaHost
	}
	baseURL, err := parseHost(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}

	// Copy so the caller's client is left untouched.
	hc := &http.Client{}
	if httpClient != nil {
		*hc = *httpClient
	}
	transport := &statusTransport{base: hc.Transport, apiKey: key.APIKey}
	hc.Transport = transport

	return &OllamaClient{
		client:    api.NewClient(baseURL, hc),
		model:     key.Model,
		transport: transport,
		logger:    logger,
	}, nil
}

// parseHost parses a host string into a URL.
func parseHost(host string) (*url.URL, error) {
	// If host doesn't have a scheme, add http://
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return url.Parse(host)
}

// Synchronous implements llm.Client.Synchronous.
func (c *OllamaClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, llm.NewUnexpectedFailure("request is required", nil)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	chatReq := ToChatRequest(req)
	chatReq.Model = model

	c.logger.Debug().
		Str("model", model).
		Int("messages", len(chatReq.Messages)).
		Msg("Sending chat request")

	var chatResp api.ChatResponse
	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		chatResp = resp
		return nil
	})
	if err != nil {
		return nil, c.classifyError(model, err)
	}

	// Error statuses with an empty body end the stream without an error.
	if status := c.transport.lastStatus; status >= http.StatusBadRequest {
		return nil, llm.NewAPIFailure(model, llm.StatusDetail(status, ""), status, nil)
	}

	if chatResp.Message.Content == "" {
		return nil, llm.NewModelFailure(model, "no text content in response", nil)
	}

	return &llm.Response{
		Text: chatResp.Message.Content,
		Usage: &llm.Usage{
			InputTokens:  int64(chatResp.PromptEvalCount),
			OutputTokens: int64(chatResp.EvalCount),
		},
		StopReason: chatResp.DoneReason,
	}, nil
}

// classifyError converts errors from the Ollama client into llm.Error values.
func (c *OllamaClient) classifyError(model string, err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return llm.NewAPIFailure(model, llm.StatusDetail(statusErr.StatusCode, statusErr.ErrorMessage), statusErr.StatusCode, err)
	}

	// Any other failure on an error status, e.g. a non-JSON error page.
	if status := c.transport.lastStatus; status >= http.StatusBadRequest {
		return llm.NewAPIFailure(model, llm.StatusDetail(status, err.Error()), status, err)
	}

	if llm.IsDecodeError(err) {
		return llm.NewUnexpectedFailure(fmt.Sprintf("malformed response from %s: %v", model, err), err)
	}

	if llm.IsTransportError(err) {
		return llm.NewAPIFailure(model, err.Error(), 0, err)
	}

	// A successful status carrying an {"error": ...} body: the model
	// server answered but could not produce a reply.
	if c.transport.lastStatus != 0 {
		return llm.NewModelFailure(model, err.Error(), err)
	}

	return llm.NewUnexpectedFailure(err.Error(), err)
}

// statusTransport adds the optional bearer token and remembers the status
// code of the last response.
type statusTransport struct {
	base       http.RoundTripper
	apiKey     string
	lastStatus int
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.apiKey != "" && req.Header.Get("Authorization") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.lastStatus = resp.StatusCode
	return resp, nil
}
