package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Save writes a template definition to path as YAML or JSON, chosen by the
// file extension. Parent directories are created. Loading the saved file
// yields an equivalent template; referenced partials are written back
// inline, and text loaded through template_path is inlined.
func Save(t Template, p string) error {
	spec, err := specFromTemplate(t)
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json":
		data, err = json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(spec)
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
	default:
		return fmt.Errorf("unsupported extension %q: path must end in .json, .yaml, or .yml", filepath.Ext(p))
	}

	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create template directory: %w", err)
		}
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}

	return nil
}

// specFromTemplate rebuilds the on-disk description of a constructed
// template.
func specFromTemplate(t Template) (*templateSpec, error) {
	switch tt := t.(type) {
	case *PromptTemplate:
		spec := &templateSpec{
			Type:           string(KindPrompt),
			Template:       tt.body.text,
			InputVariables: tt.inputs,
		}
		if err := spec.setCommon(tt.body.format, tt.partialValues, tt.partials); err != nil {
			return nil, err
		}
		return spec, nil

	case *FewShotTemplate:
		spec := &templateSpec{
			Type:           string(KindFewShot),
			Prefix:         tt.prefix.text,
			Suffix:         tt.suffix.text,
			InputVariables: tt.inputs,
		}
		examplePrompt, err := specFromTemplate(tt.examplePrompt)
		if err != nil {
			return nil, err
		}
		spec.ExamplePrompt = examplePrompt
		if len(tt.examples) > 0 {
			spec.Examples = &examplesSpec{Inline: tt.examples}
		}
		if tt.separator != DefaultExampleSeparator {
			sep := tt.separator
			spec.ExampleSeparator = &sep
		}
		if err := spec.setCommon(tt.prefix.format, tt.partialValues, tt.partials); err != nil {
			return nil, err
		}
		return spec, nil

	case *ChatTemplate:
		spec := &templateSpec{
			Type:           string(KindChat),
			InputVariables: tt.inputs,
			Messages:       tt.Messages(),
		}
		if err := spec.setCommon(tt.segments[0].body.format, tt.partialValues, tt.partials); err != nil {
			return nil, err
		}
		return spec, nil

	default:
		return nil, fmt.Errorf("cannot save template of type %T", t)
	}
}

// setCommon fills the kind-independent description keys.
func (s *templateSpec) setCommon(format Format, partialValues map[string]any, partials map[string]Template) error {
	if format != FormatFString {
		s.TemplateFormat = string(format)
	}
	if len(partialValues) > 0 {
		s.PartialVariables = partialValues
	}
	if len(partials) > 0 {
		s.Partials = make(map[string]partialSpec, len(partials))
		for name, partial := range partials {
			nested, err := specFromTemplate(partial)
			if err != nil {
				return err
			}
			s.Partials[name] = partialSpec{Inline: nested}
		}
	}
	return nil
}
