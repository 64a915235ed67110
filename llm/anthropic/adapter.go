package anthropic

import (
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/aschepis/askai/llm"
	"github.com/samber/lo"
)

// DefaultMaxTokens is sent when the caller does not set a limit. Anthropic
// requires max_tokens on every request.
const DefaultMaxTokens int64 = 1024

// ToMessageParams converts llm.Messages to Anthropic MessageParams.
// System messages are not part of the list; see ToSystemBlocks.
func ToMessageParams(msgs []llm.Message) []anthropic.MessageParam {
	return lo.FilterMap(msgs, func(msg llm.Message, _ int) (anthropic.MessageParam, bool) {
		switch msg.Role {
		case llm.RoleAssistant:
			return anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)), true
		case llm.RoleUser:
			return anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)), true
		default:
			return anthropic.MessageParam{}, false
		}
	})
}

// ToSystemBlocks converts the system prompt into the top-level system field.
// A nil or empty prompt yields no blocks so the field is omitted; the API
// rejects empty text blocks.
func ToSystemBlocks(system *string) []anthropic.TextBlockParam {
	if system == nil || *system == "" {
		return nil
	}
	return []anthropic.TextBlockParam{{Text: *system}}
}

// ToMessageNewParams builds the Messages API parameters for req.
func ToMessageNewParams(req *llm.Request) anthropic.MessageNewParams {
	maxTokens := DefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	return anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  ToMessageParams(req.Messages),
		System:    ToSystemBlocks(req.System),
	}
}

// FromContentBlocks joins the text blocks of a response. Non-text blocks are
// ignored.
func FromContentBlocks(blocks []anthropic.ContentBlockUnion) string {
	texts := lo.FilterMap(blocks, func(blockUnion anthropic.ContentBlockUnion, _ int) (string, bool) {
		block, ok := blockUnion.AsAny().(anthropic.TextBlock)
		if !ok || block.Text == "" {
			return "", false
		}
		return block.Text, true
	})
	return strings.Join(texts, "")
}
