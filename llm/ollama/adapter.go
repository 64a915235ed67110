package ollama

import (
	"github.com/aschepis/askai/llm"
	"github.com/ollama/ollama/api"
	"github.com/samber/lo"
)

// ToOllamaMessages converts llm.Messages to Ollama format.
func ToOllamaMessages(msgs []llm.Message) []api.Message {
	return lo.Map(msgs, func(msg llm.Message, _ int) api.Message {
		return ToOllamaMessage(msg)
	})
}

// ToOllamaMessage converts a single llm.Message to Ollama format.
func ToOllamaMessage(msg llm.Message) api.Message {
	role := string(msg.Role)
	if role == "" {
		role = string(llm.RoleUser)
	}
	return api.Message{
		Role:    role,
		Content: msg.Text,
	}
}

// ToChatRequest builds a non-streaming chat request for req. The system
// prompt, when present, leads the message list and max tokens is passed as
// the num_predict option.
func ToChatRequest(req *llm.Request) *api.ChatRequest {
	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: ToOllamaMessages(req.WithLeadingSystem()),
		Stream:   new(bool),
	}

	if req.MaxTokens != nil {
		chatReq.Options = map[string]any{
			"num_predict": int(*req.MaxTokens),
		}
	}

	return chatReq
}
