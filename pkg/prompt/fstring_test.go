package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFString(t *testing.T) {
	t.Run("literal only", func(t *testing.T) {
		segments, err := parseFString("plain text, no fields")
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.False(t, segments[0].field)
		assert.Equal(t, "plain text, no fields", segments[0].value)
	})

	t.Run("single field", func(t *testing.T) {
		segments, err := parseFString("Hello, {name}!")
		require.NoError(t, err)
		require.Len(t, segments, 3)
		assert.Equal(t, "Hello, ", segments[0].value)
		assert.True(t, segments[1].field)
		assert.Equal(t, "name", segments[1].value)
		assert.Equal(t, "!", segments[2].value)
	})

	t.Run("escaped braces", func(t *testing.T) {
		segments, err := parseFString("use {{braces}} around {word}")
		require.NoError(t, err)

		out, err := renderFString(segments, map[string]any{"word": "this"})
		require.NoError(t, err)
		assert.Equal(t, "use {braces} around this", out)
	})

	t.Run("adjacent fields", func(t *testing.T) {
		segments, err := parseFString("{a}{b}")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, fstringVariables(segments))
	})

	t.Run("repeated field counted once", func(t *testing.T) {
		segments, err := parseFString("{name} and {name} again")
		require.NoError(t, err)
		assert.Equal(t, []string{"name"}, fstringVariables(segments))
	})

	t.Run("empty template", func(t *testing.T) {
		segments, err := parseFString("")
		require.NoError(t, err)
		assert.Empty(t, segments)
	})
}

func TestParseFStringErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"unclosed placeholder", "Hello, {name"},
		{"unmatched closing brace", "Hello, name}"},
		{"empty placeholder", "Hello, {}"},
		{"name with space", "Hello, {first name}"},
		{"name starting with digit", "Hello, {1name}"},
		{"name with dash", "Hello, {first-name}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFString(tt.template)
			assert.Error(t, err)
		})
	}
}

func TestRenderFString(t *testing.T) {
	t.Run("substitutes values", func(t *testing.T) {
		segments, err := parseFString("Hello, {name}! You are {age}.")
		require.NoError(t, err)

		out, err := renderFString(segments, map[string]any{"name": "World", "age": 42})
		require.NoError(t, err)
		assert.Equal(t, "Hello, World! You are 42.", out)
	})

	t.Run("missing value fails", func(t *testing.T) {
		segments, err := parseFString("Hello, {name}!")
		require.NoError(t, err)

		_, err = renderFString(segments, map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("extra values ignored", func(t *testing.T) {
		segments, err := parseFString("Hello, {name}!")
		require.NoError(t, err)

		out, err := renderFString(segments, map[string]any{"name": "World", "tone": "warm"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", out)
	})
}

func TestIsFieldName(t *testing.T) {
	valid := []string{"name", "first_name", "_private", "v2", "CamelCase"}
	for _, s := range valid {
		assert.True(t, isFieldName(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "2fast", "with space", "with-dash", "dot.name", "{nested}"}
	for _, s := range invalid {
		assert.False(t, isFieldName(s), "expected %q to be invalid", s)
	}
}
