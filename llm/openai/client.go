package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aschepis/askai/llm"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements the llm.Client interface for OpenAI's API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAIClient creates a new OpenAIClient from a resolved key.
// If httpClient is nil the SDK default is used.
func NewOpenAIClient(key *llm.ClientKey, httpClient *http.Client, logger zerolog.Logger) (*OpenAIClient, error) {
	if key == nil || key.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	config := openai.DefaultConfig(key.APIKey)

	if key.BaseURL != "" {
		config.BaseURL = key.BaseURL
	}

	if key.Organization != "" {
		config.OrgID = key.Organization
	}

	if httpClient != nil {
		config.HTTPClient = httpClient
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  key.Model,
		logger: logger,
	}, nil
}

// Synchronous implements llm.Client.Synchronous.
func (c *OpenAIClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, llm.NewUnexpectedFailure("request is required", nil)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	chatReq := ToChatCompletionRequest(req)
	chatReq.Model = model

	c.logger.Debug().
		Str("model", model).
		Int("messages", len(chatReq.Messages)).
		Msg("Sending chat completion request")

	chatResp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classifyError(model, err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, llm.NewModelFailure(model, "no choices in response", nil)
	}

	choice := chatResp.Choices[0]
	if choice.Message.Content == "" {
		return nil, llm.NewModelFailure(model, "no text content in response", nil)
	}

	return &llm.Response{
		Text: choice.Message.Content,
		Usage: &llm.Usage{
			InputTokens:  int64(chatResp.Usage.PromptTokens),
			OutputTokens: int64(chatResp.Usage.CompletionTokens),
		},
		StopReason: FromFinishReason(choice.FinishReason),
	}, nil
}

// classifyError converts errors from the OpenAI SDK into llm.Error values.
func classifyError(model string, err error) error {
	if err == nil {
		return nil
	}

	// Rejected by the SDK before anything was sent.
	if errors.Is(err, openai.ErrChatCompletionInvalidModel) ||
		errors.Is(err, openai.ErrReasoningModelMaxTokensDeprecated) {
		return llm.NewModelFailure(model, err.Error(), err)
	}

	// Checked first: a RequestError may unwrap to a half-decoded APIError.
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return llm.NewAPIFailure(model, llm.StatusDetail(reqErr.HTTPStatusCode, string(reqErr.Body)), reqErr.HTTPStatusCode, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return llm.NewAPIFailure(model, llm.StatusDetail(apiErr.HTTPStatusCode, apiErr.Message), apiErr.HTTPStatusCode, err)
	}

	if llm.IsDecodeError(err) {
		return llm.NewUnexpectedFailure(fmt.Sprintf("malformed response from %s: %v", model, err), err)
	}

	if llm.IsTransportError(err) {
		return llm.NewAPIFailure(model, err.Error(), 0, err)
	}

	return llm.NewUnexpectedFailure(err.Error(), err)
}
