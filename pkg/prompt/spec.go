package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// templateSpec mirrors the on-disk template description. The _type key
// selects the kind; keys outside the selected kind are ignored.
type templateSpec struct {
	Type             string                 `json:"_type,omitempty" yaml:"_type,omitempty"`
	InputVariables   []string               `json:"input_variables,omitempty" yaml:"input_variables,omitempty"`
	TemplateFormat   string                 `json:"template_format,omitempty" yaml:"template_format,omitempty"`
	PartialVariables map[string]any         `json:"partial_variables,omitempty" yaml:"partial_variables,omitempty"`
	Partials         map[string]partialSpec `json:"partials,omitempty" yaml:"partials,omitempty"`
	ValidateTemplate *bool                  `json:"validate_template,omitempty" yaml:"validate_template,omitempty"`

	// prompt
	Template     string `json:"template,omitempty" yaml:"template,omitempty"`
	TemplatePath string `json:"template_path,omitempty" yaml:"template_path,omitempty"`

	// few_shot
	Prefix            string        `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix            string        `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	ExamplePrompt     *templateSpec `json:"example_prompt,omitempty" yaml:"example_prompt,omitempty"`
	ExamplePromptPath string        `json:"example_prompt_path,omitempty" yaml:"example_prompt_path,omitempty"`
	Examples          *examplesSpec `json:"examples,omitempty" yaml:"examples,omitempty"`
	ExampleSeparator  *string       `json:"example_separator,omitempty" yaml:"example_separator,omitempty"`

	// chat
	Messages []MessageDefinition `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// partialSpec is either an identifier string referencing another template or
// an inline nested definition.
type partialSpec struct {
	Ref    string
	Inline *templateSpec
}

func (p *partialSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&p.Ref)
	case yaml.MappingNode:
		p.Inline = &templateSpec{}
		return node.Decode(p.Inline)
	default:
		return fmt.Errorf("partial must be an identifier string or an inline definition")
	}
}

func (p partialSpec) MarshalYAML() (any, error) {
	if p.Inline != nil {
		return p.Inline, nil
	}
	return p.Ref, nil
}

func (p *partialSpec) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.Ref)
	}
	p.Inline = &templateSpec{}
	return json.Unmarshal(data, p.Inline)
}

func (p partialSpec) MarshalJSON() ([]byte, error) {
	if p.Inline != nil {
		return json.Marshal(p.Inline)
	}
	return json.Marshal(p.Ref)
}

// examplesSpec is either an inline list of example mappings or a path to a
// YAML/JSON file holding one, relative to the defining template.
type examplesSpec struct {
	Path   string
	Inline []map[string]string
}

func (e *examplesSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.Path)
	case yaml.SequenceNode:
		return node.Decode(&e.Inline)
	default:
		return fmt.Errorf("examples must be a list of mappings or a file path")
	}
}

func (e examplesSpec) MarshalYAML() (any, error) {
	if e.Path != "" {
		return e.Path, nil
	}
	return e.Inline, nil
}

func (e *examplesSpec) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Path)
	}
	return json.Unmarshal(data, &e.Inline)
}

func (e examplesSpec) MarshalJSON() ([]byte, error) {
	if e.Path != "" {
		return json.Marshal(e.Path)
	}
	return json.Marshal(e.Inline)
}

// kind maps the _type tag to a template kind. Absent means prompt.
func (s *templateSpec) kind() (Kind, error) {
	switch s.Type {
	case "", string(KindPrompt):
		return KindPrompt, nil
	case string(KindFewShot):
		return KindFewShot, nil
	case string(KindChat):
		return KindChat, nil
	}
	return "", ErrUnknownKind
}

// buildContext carries resolver state through recursive construction of
// nested definitions.
type buildContext struct {
	source   string
	strict   bool
	depth    int
	maxDepth int

	// resolve loads a partial referenced by identifier. Nil when the
	// template is built standalone; references then fail.
	resolve func(ref string) (Template, error)

	// read loads a sibling file named relative to the defining template,
	// returning its content and resolved name. Nil when unavailable.
	read func(rel string) ([]byte, string, error)
}

func (ctx buildContext) child(source string) buildContext {
	next := ctx
	next.source = source
	next.depth++
	return next
}

// parseSpec decodes a structured template description. JSON is selected by
// the .json suffix of the source; everything else parses as YAML.
func parseSpec(data []byte, source string) (*templateSpec, error) {
	var spec templateSpec

	if strings.HasSuffix(strings.ToLower(source), ".json") {
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, &FormatError{Source: source, Reason: "failed to parse JSON template", Err: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, &FormatError{Source: source, Reason: "failed to parse YAML template", Err: err}
		}
	}

	return &spec, nil
}

// buildDefinition parses structured template data and constructs the
// validated template.
func buildDefinition(data []byte, ctx buildContext) (Template, error) {
	spec, err := parseSpec(data, ctx.source)
	if err != nil {
		return nil, err
	}
	return buildFromSpec(spec, ctx)
}

// buildRaw wraps plain template text, declaring every discovered
// placeholder as an input variable.
func buildRaw(content, source string) (Template, error) {
	segments, err := parseFString(content)
	if err != nil {
		return nil, &FormatError{Source: source, Reason: "invalid template text", Err: err}
	}
	return NewPromptTemplate(content, fstringVariables(segments), withSource(source))
}

// buildFromSpec constructs the template a parsed description declares. No
// partially-constructed template is ever returned.
func buildFromSpec(spec *templateSpec, ctx buildContext) (Template, error) {
	if ctx.depth > ctx.maxDepth {
		return nil, &FormatError{Source: ctx.source, Reason: fmt.Sprintf("template nesting exceeds maximum depth %d", ctx.maxDepth)}
	}

	kind, err := spec.kind()
	if err != nil {
		return nil, &FormatError{Source: ctx.source, Reason: fmt.Sprintf("unknown _type %q", spec.Type), Err: err}
	}

	opts, err := spec.options(ctx)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindFewShot:
		return buildFewShot(spec, ctx, opts)
	case KindChat:
		return NewChatTemplate(spec.Messages, spec.InputVariables, opts...)
	default:
		return buildPrompt(spec, ctx, opts)
	}
}

// options translates the common description keys into constructor options,
// building partial templates along the way.
func (s *templateSpec) options(ctx buildContext) ([]TemplateOption, error) {
	opts := []TemplateOption{withSource(ctx.source)}

	if s.TemplateFormat != "" {
		opts = append(opts, WithTemplateFormat(Format(s.TemplateFormat)))
	}
	if len(s.PartialVariables) > 0 {
		opts = append(opts, WithPartialValues(s.PartialVariables))
	}
	if len(s.Partials) > 0 {
		partials := make(map[string]Template, len(s.Partials))
		for name, ps := range s.Partials {
			partial, err := buildPartial(name, ps, ctx)
			if err != nil {
				return nil, err
			}
			partials[name] = partial
		}
		opts = append(opts, WithPartialTemplates(partials))
	}
	if ctx.strict {
		opts = append(opts, WithStrictValidation())
	}
	if s.ValidateTemplate != nil && !*s.ValidateTemplate {
		opts = append(opts, WithoutValidation())
	}
	if s.ExampleSeparator != nil {
		opts = append(opts, WithExampleSeparator(*s.ExampleSeparator))
	}

	return opts, nil
}

// buildPartial constructs one named partial, inline or by reference.
func buildPartial(name string, ps partialSpec, ctx buildContext) (Template, error) {
	if ps.Inline != nil {
		return buildFromSpec(ps.Inline, ctx.child(fmt.Sprintf("%s (partial %q)", ctx.source, name)))
	}
	if ctx.resolve == nil {
		return nil, &FormatError{Source: ctx.source, Reason: fmt.Sprintf("partial %q references %q but no resolver is attached", name, ps.Ref)}
	}
	return ctx.resolve(ps.Ref)
}

// buildPrompt constructs a plain prompt, following template_path indirection
// when the text is not inline.
func buildPrompt(spec *templateSpec, ctx buildContext, opts []TemplateOption) (Template, error) {
	text := spec.Template

	switch {
	case spec.Template != "" && spec.TemplatePath != "":
		return nil, &FormatError{Source: ctx.source, Reason: "template and template_path are mutually exclusive"}
	case spec.TemplatePath != "":
		if ctx.read == nil {
			return nil, &FormatError{Source: ctx.source, Reason: fmt.Sprintf("template_path %q cannot be read outside a resolver", spec.TemplatePath)}
		}
		data, _, err := ctx.read(spec.TemplatePath)
		if err != nil {
			return nil, err
		}
		text = string(data)
	case spec.Template == "":
		return nil, &FormatError{Source: ctx.source, Reason: "missing template text (template or template_path)"}
	}

	return NewPromptTemplate(text, spec.InputVariables, opts...)
}

// buildFewShot constructs a few-shot prompt, following example_prompt and
// examples indirection.
func buildFewShot(spec *templateSpec, ctx buildContext, opts []TemplateOption) (Template, error) {
	var exampleSpec *templateSpec

	switch {
	case spec.ExamplePrompt != nil && spec.ExamplePromptPath != "":
		return nil, &FormatError{Source: ctx.source, Reason: "example_prompt and example_prompt_path are mutually exclusive"}
	case spec.ExamplePrompt != nil:
		exampleSpec = spec.ExamplePrompt
	case spec.ExamplePromptPath != "":
		if ctx.read == nil {
			return nil, &FormatError{Source: ctx.source, Reason: fmt.Sprintf("example_prompt_path %q cannot be read outside a resolver", spec.ExamplePromptPath)}
		}
		data, name, err := ctx.read(spec.ExamplePromptPath)
		if err != nil {
			return nil, err
		}
		parsed, err := parseSpec(data, name)
		if err != nil {
			return nil, err
		}
		exampleSpec = parsed
	default:
		return nil, &FormatError{Source: ctx.source, Reason: "few_shot template needs example_prompt or example_prompt_path"}
	}

	built, err := buildFromSpec(exampleSpec, ctx.child(ctx.source+" (example_prompt)"))
	if err != nil {
		return nil, err
	}
	examplePrompt, ok := built.(*PromptTemplate)
	if !ok {
		return nil, &FormatError{Source: ctx.source, Reason: "example_prompt must be a plain prompt"}
	}

	examples, err := spec.loadExamples(ctx)
	if err != nil {
		return nil, err
	}

	return NewFewShotTemplate(examplePrompt, examples, spec.Prefix, spec.Suffix, spec.InputVariables, opts...)
}

// loadExamples returns the example mappings, reading the referenced file
// when the description names one.
func (s *templateSpec) loadExamples(ctx buildContext) ([]map[string]string, error) {
	if s.Examples == nil {
		return nil, nil
	}
	if s.Examples.Path == "" {
		return s.Examples.Inline, nil
	}
	if ctx.read == nil {
		return nil, &FormatError{Source: ctx.source, Reason: fmt.Sprintf("examples file %q cannot be read outside a resolver", s.Examples.Path)}
	}

	data, name, err := ctx.read(s.Examples.Path)
	if err != nil {
		return nil, err
	}

	var examples []map[string]string
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		if err := json.Unmarshal(data, &examples); err != nil {
			return nil, &FormatError{Source: name, Reason: "failed to parse JSON examples", Err: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &examples); err != nil {
			return nil, &FormatError{Source: name, Reason: "failed to parse YAML examples", Err: err}
		}
	}

	return examples, nil
}
