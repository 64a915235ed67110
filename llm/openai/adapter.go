package openai

import (
	"github.com/aschepis/askai/llm"
	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"
)

// ToOpenAIMessages converts llm.Messages to OpenAI chat message format.
func ToOpenAIMessages(msgs []llm.Message) []openai.ChatCompletionMessage {
	return lo.Map(msgs, func(msg llm.Message, _ int) openai.ChatCompletionMessage {
		return ToOpenAIMessage(msg)
	})
}

// ToOpenAIMessage converts a single llm.Message to OpenAI format.
func ToOpenAIMessage(msg llm.Message) openai.ChatCompletionMessage {
	var role string
	switch msg.Role {
	case llm.RoleAssistant:
		role = openai.ChatMessageRoleAssistant
	case llm.RoleSystem:
		role = openai.ChatMessageRoleSystem
	default:
		role = openai.ChatMessageRoleUser
	}

	return openai.ChatCompletionMessage{
		Role:    role,
		Content: msg.Text,
	}
}

// ToChatCompletionRequest builds the chat completion request for req. The
// system prompt, when present, leads the message list.
func ToChatCompletionRequest(req *llm.Request) openai.ChatCompletionRequest {
	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: ToOpenAIMessages(req.WithLeadingSystem()),
	}

	if req.MaxTokens != nil {
		chatReq.MaxCompletionTokens = int(*req.MaxTokens)
	}

	return chatReq
}

// FromFinishReason maps an OpenAI finish reason to the neutral stop reason.
func FromFinishReason(reason openai.FinishReason) string {
	switch reason {
	case openai.FinishReasonLength:
		return "max_tokens"
	case openai.FinishReasonContentFilter:
		return "content_filter"
	default:
		return "stop"
	}
}
