package prompt

import (
	"fmt"
	"strings"
)

// MessageDefinition declares one role-tagged message in a chat template.
// Role is system, human, ai, or any other non-empty string for generic
// roles.
type MessageDefinition struct {
	Role     string `json:"role" yaml:"role"`
	Template string `json:"template" yaml:"template"`
}

// chatSegment is one compiled message of a chat template.
type chatSegment struct {
	role string
	body body
}

// ChatTemplate renders an ordered sequence of role-tagged messages.
// Immutable after construction.
type ChatTemplate struct {
	source        string
	segments      []chatSegment
	inputs        []string
	required      []string
	partialValues map[string]any
	partials      map[string]Template
	warnings      []string
}

// NewChatTemplate compiles and validates a chat template from ordered
// message definitions.
func NewChatTemplate(messages []MessageDefinition, inputVariables []string, opts ...TemplateOption) (*ChatTemplate, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		return nil, &FormatError{Source: cfg.source, Reason: "chat template needs at least one message"}
	}

	segments := make([]chatSegment, 0, len(messages))
	discovered := make([][]string, 0, len(messages))
	for i, msg := range messages {
		if msg.Role == "" {
			return nil, &FormatError{Source: cfg.source, Reason: fmt.Sprintf("message %d has no role", i)}
		}
		b, err := compileBody(msg.Template, cfg.format)
		if err != nil {
			return nil, &FormatError{Source: cfg.source, Reason: fmt.Sprintf("invalid template text in message %d", i), Err: err}
		}
		segments = append(segments, chatSegment{role: msg.Role, body: b})
		discovered = append(discovered, b.variables())
	}

	warnings, err := cfg.validatePlaceholders(unionVariables(discovered...), inputVariables)
	if err != nil {
		return nil, err
	}

	return &ChatTemplate{
		source:        cfg.source,
		segments:      segments,
		inputs:        append([]string(nil), inputVariables...),
		required:      cfg.requiredVariables(inputVariables),
		partialValues: cfg.partialValues,
		partials:      cfg.partials,
		warnings:      warnings,
	}, nil
}

// Kind returns KindChat.
func (c *ChatTemplate) Kind() Kind { return KindChat }

// InputVariables returns the declared input variable names.
func (c *ChatTemplate) InputVariables() []string {
	return append([]string(nil), c.inputs...)
}

// Warnings returns load-time validation warnings.
func (c *ChatTemplate) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

// Messages returns the message definitions in declared order.
func (c *ChatTemplate) Messages() []MessageDefinition {
	defs := make([]MessageDefinition, 0, len(c.segments))
	for _, seg := range c.segments {
		defs = append(defs, MessageDefinition{Role: seg.role, Template: seg.body.text})
	}
	return defs
}

// RenderMessages substitutes values into every message and returns them in
// declared order.
func (c *ChatTemplate) RenderMessages(values map[string]any) ([]Message, error) {
	merged, err := mergePartials(c.required, c.partialValues, c.partials, values)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(c.segments))
	for i, seg := range c.segments {
		content, err := seg.body.render(merged)
		if err != nil {
			return nil, &RenderError{Err: fmt.Errorf("message %d: %w", i, err)}
		}
		messages = append(messages, Message{Role: seg.role, Content: content})
	}

	return messages, nil
}

// Render returns the buffer form of the conversation: one "role: content"
// line per message.
func (c *ChatTemplate) Render(values map[string]any) (string, error) {
	messages, err := c.RenderMessages(values)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n"), nil
}

func (c *ChatTemplate) requiredVariables() []string { return c.required }
