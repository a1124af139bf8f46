package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// body is one compiled piece of template text. F-string text compiles into
// segments at construction; go-template text renders through langchaingo.
type body struct {
	text     string
	format   Format
	segments []fsSegment
}

// compileBody parses template text once for the given format.
func compileBody(text string, format Format) (body, error) {
	b := body{text: text, format: format}

	switch format {
	case FormatFString:
		segments, err := parseFString(text)
		if err != nil {
			return body{}, err
		}
		b.segments = segments
	case FormatGoTemplate:
		// Rendering delegates to langchaingo; nothing to precompile.
	default:
		return body{}, fmt.Errorf("unknown template format %q", format)
	}

	return b, nil
}

// variables returns the distinct placeholder names discovered in the text.
func (b body) variables() []string {
	if b.format == FormatGoTemplate {
		return goTemplateVariables(b.text)
	}
	return fstringVariables(b.segments)
}

// render substitutes values into the compiled text.
func (b body) render(values map[string]any) (string, error) {
	if b.format == FormatGoTemplate {
		return prompts.RenderTemplate(b.text, prompts.TemplateFormatGoTemplate, values)
	}
	return renderFString(b.segments, values)
}

// goTemplateVariables extracts {{.name}} references from go-template text,
// in first appearance order.
func goTemplateVariables(text string) []string {
	seen := make(map[string]bool)
	var vars []string

	start := 0
	for {
		idx := strings.Index(text[start:], "{{.")
		if idx == -1 {
			break
		}
		start += idx + 3

		end := strings.Index(text[start:], "}}")
		if end == -1 {
			break
		}

		name := strings.TrimSpace(text[start : start+end])
		if name != "" && !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
		start += end + 2
	}

	return vars
}

// templateConfig collects option state shared by the template constructors.
type templateConfig struct {
	source        string
	format        Format
	partialValues map[string]any
	partials      map[string]Template
	separator     string
	strict        bool
	validate      bool
}

// TemplateOption configures template construction.
type TemplateOption func(*templateConfig) error

func applyOptions(opts []TemplateOption) (templateConfig, error) {
	cfg := templateConfig{
		format:    FormatFString,
		separator: DefaultExampleSeparator,
		validate:  true,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return templateConfig{}, err
		}
	}
	return cfg, nil
}

// WithTemplateFormat selects the placeholder syntax. FormatFString is the
// default.
func WithTemplateFormat(format Format) TemplateOption {
	return func(cfg *templateConfig) error {
		switch format {
		case FormatFString, FormatGoTemplate:
			cfg.format = format
			return nil
		default:
			return &FormatError{Source: cfg.source, Reason: fmt.Sprintf("unknown template format %q", format)}
		}
	}
}

// WithPartialValues pre-fills constant values. Pre-filled names are no
// longer required at render time; caller values still win on overlap.
func WithPartialValues(values map[string]any) TemplateOption {
	return func(cfg *templateConfig) error {
		cfg.partialValues = values
		return nil
	}
}

// WithPartialTemplates attaches named sub-templates. Each renders with the
// caller's values and its output fills the placeholder of the same name.
func WithPartialTemplates(partials map[string]Template) TemplateOption {
	return func(cfg *templateConfig) error {
		cfg.partials = partials
		return nil
	}
}

// WithStrictValidation turns declared-but-unused input variables from
// warnings into a hard ValidationError.
func WithStrictValidation() TemplateOption {
	return func(cfg *templateConfig) error {
		cfg.strict = true
		return nil
	}
}

// WithoutValidation skips placeholder validation entirely. Template text is
// still compiled, so syntax errors are still caught.
func WithoutValidation() TemplateOption {
	return func(cfg *templateConfig) error {
		cfg.validate = false
		return nil
	}
}

// WithExampleSeparator sets the string joining few-shot pieces. Defaults to
// DefaultExampleSeparator.
func WithExampleSeparator(sep string) TemplateOption {
	return func(cfg *templateConfig) error {
		cfg.separator = sep
		return nil
	}
}

// withSource tags errors and warnings with the identifier or path the
// definition came from.
func withSource(source string) TemplateOption {
	return func(cfg *templateConfig) error {
		cfg.source = source
		return nil
	}
}

// validatePlaceholders checks discovered placeholders against the declared
// set (input variables plus partial-supplied names). Undeclared placeholders
// are always a hard ValidationError. Unused input variables are warnings,
// or part of the error in strict mode.
func (cfg templateConfig) validatePlaceholders(discovered, inputs []string) ([]string, error) {
	if !cfg.validate {
		return nil, nil
	}

	declared := make(map[string]bool, len(inputs)+len(cfg.partialValues)+len(cfg.partials))
	for _, name := range inputs {
		declared[name] = true
	}
	for name := range cfg.partialValues {
		declared[name] = true
	}
	for name := range cfg.partials {
		declared[name] = true
	}

	used := make(map[string]bool, len(discovered))
	var undeclared []string
	for _, name := range discovered {
		used[name] = true
		if !declared[name] {
			undeclared = append(undeclared, name)
		}
	}
	sort.Strings(undeclared)

	var unused []string
	for _, name := range inputs {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)

	if len(undeclared) > 0 || (cfg.strict && len(unused) > 0) {
		verr := &ValidationError{Source: cfg.source, Undeclared: undeclared}
		if cfg.strict {
			verr.Unused = unused
		}
		return nil, verr
	}

	var warnings []string
	for _, name := range unused {
		warnings = append(warnings, fmt.Sprintf("declared input variable %q is unused", name))
	}
	return warnings, nil
}

// requiredVariables computes the names a template needs at render time:
// declared inputs minus partial-supplied names, plus everything the partial
// templates themselves require. Sorted.
func (cfg templateConfig) requiredVariables(inputs []string) []string {
	required := make(map[string]bool, len(inputs))
	for _, name := range inputs {
		required[name] = true
	}
	for name := range cfg.partialValues {
		delete(required, name)
	}
	for name, partial := range cfg.partials {
		delete(required, name)
		for _, dep := range templateRequires(partial) {
			required[dep] = true
		}
	}

	names := make([]string, 0, len(required))
	for name := range required {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// templateRequires returns the variables a template needs at render time.
func templateRequires(t Template) []string {
	if r, ok := t.(interface{ requiredVariables() []string }); ok {
		return r.requiredVariables()
	}
	return t.InputVariables()
}

// mergePartials checks the required set, renders partial templates, and
// layers caller values on top. Caller values win over partial output and
// pre-filled constants.
func mergePartials(required []string, partialValues map[string]any, partials map[string]Template, values map[string]any) (map[string]any, error) {
	var missing []string
	for _, name := range required {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &RenderError{Missing: missing}
	}

	merged := make(map[string]any, len(partialValues)+len(partials)+len(values))
	for k, v := range partialValues {
		merged[k] = v
	}
	for name, partial := range partials {
		if _, ok := values[name]; ok {
			continue
		}
		rendered, err := partial.Render(values)
		if err != nil {
			return nil, &RenderError{Err: fmt.Errorf("partial %q: %w", name, err)}
		}
		merged[name] = rendered
	}
	for k, v := range values {
		merged[k] = v
	}
	return merged, nil
}

// PromptTemplate is a plain prompt: one piece of template text with declared
// input variables. Immutable after construction.
type PromptTemplate struct {
	source        string
	body          body
	inputs        []string
	required      []string
	partialValues map[string]any
	partials      map[string]Template
	warnings      []string
}

// NewPromptTemplate compiles and validates a plain prompt template.
func NewPromptTemplate(text string, inputVariables []string, opts ...TemplateOption) (*PromptTemplate, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	b, err := compileBody(text, cfg.format)
	if err != nil {
		return nil, &FormatError{Source: cfg.source, Reason: "invalid template text", Err: err}
	}

	warnings, err := cfg.validatePlaceholders(b.variables(), inputVariables)
	if err != nil {
		return nil, err
	}

	return &PromptTemplate{
		source:        cfg.source,
		body:          b,
		inputs:        append([]string(nil), inputVariables...),
		required:      cfg.requiredVariables(inputVariables),
		partialValues: cfg.partialValues,
		partials:      cfg.partials,
		warnings:      warnings,
	}, nil
}

// Kind returns KindPrompt.
func (p *PromptTemplate) Kind() Kind { return KindPrompt }

// InputVariables returns the declared input variable names.
func (p *PromptTemplate) InputVariables() []string {
	return append([]string(nil), p.inputs...)
}

// Warnings returns load-time validation warnings.
func (p *PromptTemplate) Warnings() []string {
	return append([]string(nil), p.warnings...)
}

// Text returns the raw template text.
func (p *PromptTemplate) Text() string { return p.body.text }

// Format returns the placeholder syntax of the template text.
func (p *PromptTemplate) Format() Format { return p.body.format }

// Render substitutes values into the template. Every required variable must
// be present, otherwise a RenderError names all missing variables. Extra
// entries are ignored. Values are stringified with fmt.Sprint.
func (p *PromptTemplate) Render(values map[string]any) (string, error) {
	merged, err := mergePartials(p.required, p.partialValues, p.partials, values)
	if err != nil {
		return "", err
	}

	out, err := p.body.render(merged)
	if err != nil {
		return "", &RenderError{Err: err}
	}
	return out, nil
}

func (p *PromptTemplate) requiredVariables() []string { return p.required }
