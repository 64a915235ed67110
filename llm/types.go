package llm

import (
	"encoding/json"

	"github.com/samber/lo"
)

// Provider identifies one of the supported LLM services.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
)

// Providers lists every supported provider in a stable order.
var Providers = []Provider{ProviderOpenAI, ProviderAnthropic, ProviderOllama}

func (p Provider) String() string {
	return string(p)
}

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	return lo.Contains(Providers, p)
}

// emptyPromptPlaceholder is sent in place of an empty new prompt. Providers
// reject empty user turns, so the question is forwarded with a minimal body.
const emptyPromptPlaceholder = "."

// Config selects the provider and model used to answer a question.
type Config struct {
	Provider  Provider `yaml:"provider" json:"provider" validate:"required,oneof=openai anthropic ollama"`
	Model     string   `yaml:"model" json:"model" validate:"required"`
	MaxTokens *int64   `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty" validate:"omitempty,gt=0"`
}

// Turn is one earlier exchange: what was asked and what came back.
type Turn struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
}

// Question is everything needed to ask a model for one answer.
// Messages are oldest first.
type Question struct {
	SystemPrompt *string `yaml:"system_prompt,omitempty" json:"system_prompt,omitempty"`
	Messages     []Turn  `yaml:"messages,omitempty" json:"messages,omitempty"`
	NewPrompt    string  `yaml:"new_prompt" json:"new_prompt"`
}

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message represents a single message in a conversation.
// This is provider-neutral and can represent user, assistant, or system messages.
type Message struct {
	Role MessageRole `json:"role"`
	Text string      `json:"text"`
}

// Request represents a complete, provider-neutral LLM API request.
// System is kept apart from Messages because providers disagree on where it goes.
type Request struct {
	Model     string
	System    *string
	Messages  []Message
	MaxTokens *int64
}

// Response represents a complete LLM API response.
type Response struct {
	Text       string
	Usage      *Usage
	StopReason string
}

// Usage represents token usage information from an LLM response.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// NewTextMessage creates a new message with text content.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{Role: role, Text: text}
}

// ExpandTurns flattens turns into alternating user/assistant messages in
// chronological order. Empty halves of a turn are dropped.
func ExpandTurns(turns []Turn) []Message {
	return lo.FlatMap(turns, func(t Turn, _ int) []Message {
		msgs := make([]Message, 0, 2)
		if t.Input != "" {
			msgs = append(msgs, NewTextMessage(RoleUser, t.Input))
		}
		if t.Output != "" {
			msgs = append(msgs, NewTextMessage(RoleAssistant, t.Output))
		}
		return msgs
	})
}

// BuildRequest turns a question into the provider-neutral request for cfg.
// The new prompt is always the final message.
func BuildRequest(cfg Config, q Question) *Request {
	prompt := q.NewPrompt
	if prompt == "" {
		prompt = emptyPromptPlaceholder
	}

	messages := append(ExpandTurns(q.Messages), NewTextMessage(RoleUser, prompt))

	return &Request{
		Model:     cfg.Model,
		System:    q.SystemPrompt,
		Messages:  messages,
		MaxTokens: cfg.MaxTokens,
	}
}

// WithLeadingSystem returns the request messages with the system prompt, if
// any, prepended as a system-role message. Used by providers that carry the
// system prompt inside the message list.
func (r *Request) WithLeadingSystem() []Message {
	if r.System == nil {
		return r.Messages
	}
	return append([]Message{NewTextMessage(RoleSystem, *r.System)}, r.Messages...)
}

// ToJSON marshals a message to JSON for debugging/logging purposes.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
