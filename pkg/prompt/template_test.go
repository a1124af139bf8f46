package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Template = (*PromptTemplate)(nil)

func TestNewPromptTemplate(t *testing.T) {
	t.Run("renders with values", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("Hello, {name}!", []string{"name"})
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"name": "World"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", out)
	})

	t.Run("reports kind and variables", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("{greeting}, {name}!", []string{"greeting", "name"})
		require.NoError(t, err)

		assert.Equal(t, KindPrompt, tmpl.Kind())
		assert.Equal(t, []string{"greeting", "name"}, tmpl.InputVariables())
		assert.Empty(t, tmpl.Warnings())
	})

	t.Run("undeclared placeholder fails validation", func(t *testing.T) {
		_, err := NewPromptTemplate("Hello, {name}! Mood: {unused}", []string{"name"})
		require.Error(t, err)
		require.True(t, IsValidation(err))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"unused"}, verr.Undeclared)
	})

	t.Run("unused declared variable is a warning by default", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("Hello, {name}!", []string{"name", "tone"})
		require.NoError(t, err)
		require.Len(t, tmpl.Warnings(), 1)
		assert.Contains(t, tmpl.Warnings()[0], "tone")
	})

	t.Run("unused declared variable fails in strict mode", func(t *testing.T) {
		_, err := NewPromptTemplate("Hello, {name}!", []string{"name", "tone"}, WithStrictValidation())
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"tone"}, verr.Unused)
	})

	t.Run("validation can be disabled", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("Hello, {name}! Mood: {whatever}", []string{"name"}, WithoutValidation())
		require.NoError(t, err)
		assert.Empty(t, tmpl.Warnings())
		_ = tmpl
	})

	t.Run("bad placeholder syntax is a format error", func(t *testing.T) {
		_, err := NewPromptTemplate("Hello, {name", []string{"name"})
		require.Error(t, err)
		assert.True(t, IsFormat(err))
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		_, err := NewPromptTemplate("Hello", nil, WithTemplateFormat(Format("jinja2")))
		require.Error(t, err)
		assert.True(t, IsFormat(err))
	})
}

func TestPromptTemplateRender(t *testing.T) {
	t.Run("missing variables reported together, sorted", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("{b} {a} {c}", []string{"a", "b", "c"})
		require.NoError(t, err)

		_, err = tmpl.Render(map[string]any{"b": "present"})
		require.Error(t, err)

		var rerr *RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, []string{"a", "c"}, rerr.Missing)
	})

	t.Run("extra values ignored", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("Hello, {name}!", []string{"name"})
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"name": "World", "tone": "warm"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", out)
	})

	t.Run("values stringified", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("You are {age} years old.", []string{"age"})
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"age": 42})
		require.NoError(t, err)
		assert.Equal(t, "You are 42 years old.", out)
	})

	t.Run("rendering is pure", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("Hello, {name}!", []string{"name"})
		require.NoError(t, err)

		first, err := tmpl.Render(map[string]any{"name": "World"})
		require.NoError(t, err)
		second, err := tmpl.Render(map[string]any{"name": "World"})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("no unresolved placeholders in output", func(t *testing.T) {
		tmpl, err := NewPromptTemplate("{greeting}, {name}! {{literal}} stays.", []string{"greeting", "name"})
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"greeting": "Hi", "name": "World"})
		require.NoError(t, err)
		assert.Equal(t, "Hi, World! {literal} stays.", out)
	})
}

func TestPromptTemplatePartialValues(t *testing.T) {
	t.Run("pre-filled values are not required", func(t *testing.T) {
		tmpl, err := NewPromptTemplate(
			"{greeting}, {name}!",
			[]string{"name"},
			WithPartialValues(map[string]any{"greeting": "Hello"}),
		)
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"name": "World"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", out)
	})

	t.Run("caller values win over pre-filled", func(t *testing.T) {
		tmpl, err := NewPromptTemplate(
			"{greeting}, {name}!",
			[]string{"name"},
			WithPartialValues(map[string]any{"greeting": "Hello"}),
		)
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"name": "World", "greeting": "Hey"})
		require.NoError(t, err)
		assert.Equal(t, "Hey, World!", out)
	})
}

func TestPromptTemplatePartialTemplates(t *testing.T) {
	t.Run("partial output fills the placeholder", func(t *testing.T) {
		header, err := NewPromptTemplate("[{app}]", []string{"app"})
		require.NoError(t, err)

		tmpl, err := NewPromptTemplate(
			"{header} Hello, {name}!",
			[]string{"name"},
			WithPartialTemplates(map[string]Template{"header": header}),
		)
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"name": "World", "app": "prompthub"})
		require.NoError(t, err)
		assert.Equal(t, "[prompthub] Hello, World!", out)
	})

	t.Run("partial requirements propagate to the required set", func(t *testing.T) {
		header, err := NewPromptTemplate("[{app}]", []string{"app"})
		require.NoError(t, err)

		tmpl, err := NewPromptTemplate(
			"{header} Hello, {name}!",
			[]string{"name"},
			WithPartialTemplates(map[string]Template{"header": header}),
		)
		require.NoError(t, err)

		_, err = tmpl.Render(map[string]any{})
		require.Error(t, err)

		var rerr *RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, []string{"app", "name"}, rerr.Missing)
	})

	t.Run("caller value overrides the partial", func(t *testing.T) {
		header, err := NewPromptTemplate("[{app}]", []string{"app"})
		require.NoError(t, err)

		tmpl, err := NewPromptTemplate(
			"{header} Hello, {name}!",
			[]string{"name"},
			WithPartialTemplates(map[string]Template{"header": header}),
		)
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"name": "World", "app": "ignored", "header": "<custom>"})
		require.NoError(t, err)
		assert.Equal(t, "<custom> Hello, World!", out)
	})
}

func TestPromptTemplateGoFormat(t *testing.T) {
	t.Run("renders go-template syntax", func(t *testing.T) {
		tmpl, err := NewPromptTemplate(
			"Hello, {{.name}}!",
			[]string{"name"},
			WithTemplateFormat(FormatGoTemplate),
		)
		require.NoError(t, err)

		out, err := tmpl.Render(map[string]any{"name": "World"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", out)
	})

	t.Run("validates go-template placeholders", func(t *testing.T) {
		_, err := NewPromptTemplate(
			"Hello, {{.name}}! Mood: {{.mood}}",
			[]string{"name"},
			WithTemplateFormat(FormatGoTemplate),
		)
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"mood"}, verr.Undeclared)
	})
}

func TestGoTemplateVariables(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", "Hello, {{.name}}!", []string{"name"}},
		{"multiple in order", "{{.a}} {{.b}}", []string{"a", "b"}},
		{"deduplicated", "{{.a}} {{.a}}", []string{"a"}},
		{"spaced", "{{ .name }}", nil},
		{"none", "no placeholders here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, goTemplateVariables(tt.text))
		})
	}
}
