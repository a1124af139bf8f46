package prompt

// Kind tags the closed set of template variants.
type Kind string

const (
	// KindPrompt is a plain text template with placeholders.
	KindPrompt Kind = "prompt"

	// KindFewShot is a prompt assembled from a prefix, rendered examples,
	// and a suffix.
	KindFewShot Kind = "few_shot"

	// KindChat is an ordered list of role-tagged message templates.
	KindChat Kind = "chat"
)

// Format selects the placeholder syntax of a template.
type Format string

const (
	// FormatFString uses {name} placeholders with {{ and }} escapes.
	FormatFString Format = "f-string"

	// FormatGoTemplate uses Go text/template syntax ({{.name}}), rendered
	// through langchaingo.
	FormatGoTemplate Format = "go-template"
)

// Roles recognized by chat templates. Any other non-empty role is carried
// through as-is.
const (
	RoleSystem = "system"
	RoleHuman  = "human"
	RoleAI     = "ai"
)

// Message is a single rendered chat message.
type Message struct {
	Role    string
	Content string
}

// Template is a parsed, validated, immutable prompt template.
type Template interface {
	// Kind returns the template variant tag.
	Kind() Kind

	// InputVariables returns the declared input variable names.
	InputVariables() []string

	// Render substitutes the given values into the template. Every required
	// variable must be present or a RenderError naming the missing variables
	// is returned. Extra entries are ignored.
	Render(values map[string]any) (string, error)

	// Warnings returns non-fatal findings from load-time validation, such as
	// declared variables that are never used.
	Warnings() []string
}

// MessageTemplate is implemented by templates that render to an ordered
// sequence of role-tagged messages.
type MessageTemplate interface {
	Template

	// RenderMessages renders the template into messages in declared order.
	RenderMessages(values map[string]any) ([]Message, error)
}
