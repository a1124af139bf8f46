package prompt

import (
	"fmt"
	"strings"
)

// DefaultExampleSeparator joins few-shot pieces when no separator is
// configured.
const DefaultExampleSeparator = "\n\n"

// FewShotTemplate renders a prefix, a formatted example per example mapping,
// and a suffix, joined by a separator. Immutable after construction.
type FewShotTemplate struct {
	source        string
	prefix        body
	suffix        body
	examplePrompt *PromptTemplate
	examples      []map[string]string
	separator     string
	inputs        []string
	required      []string
	partialValues map[string]any
	partials      map[string]Template
	warnings      []string
}

// NewFewShotTemplate compiles and validates a few-shot template. Each
// example mapping must supply every variable the example prompt requires;
// that is checked here, not at render time.
func NewFewShotTemplate(examplePrompt *PromptTemplate, examples []map[string]string, prefix, suffix string, inputVariables []string, opts ...TemplateOption) (*FewShotTemplate, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	if examplePrompt == nil {
		return nil, &FormatError{Source: cfg.source, Reason: "few_shot template needs an example prompt"}
	}

	prefixBody, err := compileBody(prefix, cfg.format)
	if err != nil {
		return nil, &FormatError{Source: cfg.source, Reason: "invalid prefix text", Err: err}
	}
	suffixBody, err := compileBody(suffix, cfg.format)
	if err != nil {
		return nil, &FormatError{Source: cfg.source, Reason: "invalid suffix text", Err: err}
	}

	needed := templateRequires(examplePrompt)
	for i, example := range examples {
		for _, name := range needed {
			if _, ok := example[name]; !ok {
				return nil, &FormatError{
					Source: cfg.source,
					Reason: fmt.Sprintf("example %d is missing a value for %q", i, name),
				}
			}
		}
	}

	discovered := unionVariables(prefixBody.variables(), suffixBody.variables())
	warnings, err := cfg.validatePlaceholders(discovered, inputVariables)
	if err != nil {
		return nil, err
	}

	return &FewShotTemplate{
		source:        cfg.source,
		prefix:        prefixBody,
		suffix:        suffixBody,
		examplePrompt: examplePrompt,
		examples:      examples,
		separator:     cfg.separator,
		inputs:        append([]string(nil), inputVariables...),
		required:      cfg.requiredVariables(inputVariables),
		partialValues: cfg.partialValues,
		partials:      cfg.partials,
		warnings:      warnings,
	}, nil
}

// Kind returns KindFewShot.
func (f *FewShotTemplate) Kind() Kind { return KindFewShot }

// InputVariables returns the declared input variable names.
func (f *FewShotTemplate) InputVariables() []string {
	return append([]string(nil), f.inputs...)
}

// Warnings returns load-time validation warnings.
func (f *FewShotTemplate) Warnings() []string {
	return append([]string(nil), f.warnings...)
}

// Render formats the prefix, every example through the example prompt, and
// the suffix, joining non-empty pieces with the separator. Examples render
// from their own mappings; prefix and suffix render from the caller values.
func (f *FewShotTemplate) Render(values map[string]any) (string, error) {
	merged, err := mergePartials(f.required, f.partialValues, f.partials, values)
	if err != nil {
		return "", err
	}

	var pieces []string

	out, err := f.prefix.render(merged)
	if err != nil {
		return "", &RenderError{Err: fmt.Errorf("prefix: %w", err)}
	}
	if out != "" {
		pieces = append(pieces, out)
	}

	for i, example := range f.examples {
		exampleValues := make(map[string]any, len(example))
		for k, v := range example {
			exampleValues[k] = v
		}
		out, err := f.examplePrompt.Render(exampleValues)
		if err != nil {
			return "", &RenderError{Err: fmt.Errorf("example %d: %w", i, err)}
		}
		if out != "" {
			pieces = append(pieces, out)
		}
	}

	out, err = f.suffix.render(merged)
	if err != nil {
		return "", &RenderError{Err: fmt.Errorf("suffix: %w", err)}
	}
	if out != "" {
		pieces = append(pieces, out)
	}

	return strings.Join(pieces, f.separator), nil
}

func (f *FewShotTemplate) requiredVariables() []string { return f.required }

// unionVariables merges discovered variable lists preserving first
// appearance order.
func unionVariables(lists ...[]string) []string {
	seen := make(map[string]bool)
	var union []string
	for _, list := range lists {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				union = append(union, name)
			}
		}
	}
	return union
}
