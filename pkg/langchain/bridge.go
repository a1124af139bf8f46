// Package langchain adapts resolved templates to the langchaingo prompt
// interfaces so they can drive chains and agents directly.
package langchain

import (
	"github.com/killallgit/prompthub/pkg/prompt"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
)

// ChatMessages converts rendered messages to LangChain chat messages. The
// system, human, and ai roles map to their typed counterparts; any other
// role becomes a generic message.
func ChatMessages(messages []prompt.Message) []llms.ChatMessage {
	result := make([]llms.ChatMessage, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case prompt.RoleSystem:
			result = append(result, llms.SystemChatMessage{Content: msg.Content})
		case prompt.RoleHuman:
			result = append(result, llms.HumanChatMessage{Content: msg.Content})
		case prompt.RoleAI:
			result = append(result, llms.AIChatMessage{Content: msg.Content})
		default:
			result = append(result, llms.GenericChatMessage{
				Role:    msg.Role,
				Content: msg.Content,
			})
		}
	}

	return result
}

// Prompter wraps a resolved template as a prompts.FormatPrompter so it can
// be handed to chains.NewLLMChain and friends.
type Prompter struct {
	template prompt.Template
}

// Wrap adapts a resolved template to the FormatPrompter interface.
func Wrap(t prompt.Template) *Prompter {
	return &Prompter{template: t}
}

// GetInputVariables returns the variable names the template declares.
func (p *Prompter) GetInputVariables() []string {
	return p.template.InputVariables()
}

// FormatPrompt renders the template into a prompt value. Chat templates
// produce a message list; everything else produces a string prompt.
func (p *Prompter) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	if mt, ok := p.template.(prompt.MessageTemplate); ok {
		messages, err := mt.RenderMessages(values)
		if err != nil {
			return nil, err
		}
		return prompts.ChatPromptValue(ChatMessages(messages)), nil
	}

	text, err := p.template.Render(values)
	if err != nil {
		return nil, err
	}
	return prompts.StringPromptValue(text), nil
}

// Format renders the template to a string.
func (p *Prompter) Format(values map[string]any) (string, error) {
	return p.template.Render(values)
}

// PromptValue renders a template directly into a LangChain prompt value.
func PromptValue(t prompt.Template, values map[string]any) (llms.PromptValue, error) {
	return Wrap(t).FormatPrompt(values)
}
