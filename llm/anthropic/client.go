package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aschepis/askai/llm"
	"github.com/rs/zerolog"
)

// AnthropicClient implements the llm.Client interface for Anthropic's API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	logger zerolog.Logger
}

// NewAnthropicClient creates a new AnthropicClient from a resolved key.
// The SDK's own retries are disabled; each call is a single attempt.
func NewAnthropicClient(key *llm.ClientKey, httpClient *http.Client, logger zerolog.Logger) (*AnthropicClient, error) {
	if key == nil || key.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key.APIKey),
		option.WithMaxRetries(0),
	}
	if key.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(key.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client: &client,
		model:  key.Model,
		logger: logger,
	}, nil
}

// Synchronous implements llm.Client.Synchronous.
func (c *AnthropicClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, llm.NewUnexpectedFailure("request is required", nil)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := ToMessageNewParams(req)
	params.Model = anthropic.Model(model)

	c.logger.Debug().
		Str("model", model).
		Int("messages", len(params.Messages)).
		Int64("max_tokens", params.MaxTokens).
		Msg("Sending messages request")

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyError(model, err)
	}

	text := FromContentBlocks(message.Content)
	if text == "" {
		return nil, llm.NewModelFailure(model, "no text content in response", nil)
	}

	return &llm.Response{
		Text: text,
		Usage: &llm.Usage{
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		},
		StopReason: string(message.StopReason),
	}, nil
}

// classifyError converts errors from the Anthropic SDK into llm.Error values.
func classifyError(model string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return llm.NewAPIFailure(model, llm.StatusDetail(apiErr.StatusCode, apiErr.RawJSON()), apiErr.StatusCode, err)
	}

	if llm.IsDecodeError(err) {
		return llm.NewUnexpectedFailure(fmt.Sprintf("malformed response from %s: %v", model, err), err)
	}

	if llm.IsTransportError(err) {
		return llm.NewAPIFailure(model, err.Error(), 0, err)
	}

	return llm.NewUnexpectedFailure(err.Error(), err)
}
