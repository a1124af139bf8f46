package prompt

import (
	"fmt"
	"strings"
)

// fsSegment is one compiled piece of an f-string template: literal text, or
// a named field substituted at render time.
type fsSegment struct {
	field bool
	value string
}

// parseFString compiles f-string text into segments. {name} marks a field;
// {{ and }} are escapes producing literal braces. Names must start with a
// letter or underscore and continue with letters, digits, or underscores.
func parseFString(text string) ([]fsSegment, error) {
	var segments []fsSegment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, fsSegment{value: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			literal.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			literal.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end == -1 {
				return nil, fmt.Errorf("unclosed placeholder at offset %d", i)
			}
			name := text[i+1 : i+1+end]
			if !isFieldName(name) {
				return nil, fmt.Errorf("invalid placeholder name %q at offset %d", name, i)
			}
			flush()
			segments = append(segments, fsSegment{field: true, value: name})
			i += end + 2
		case c == '}':
			return nil, fmt.Errorf("unmatched '}' at offset %d", i)
		default:
			literal.WriteByte(c)
			i++
		}
	}
	flush()

	return segments, nil
}

// renderFString substitutes field values into compiled segments. Every field
// must have an entry in values; callers check the required set beforehand.
func renderFString(segments []fsSegment, values map[string]any) (string, error) {
	var out strings.Builder

	for _, seg := range segments {
		if !seg.field {
			out.WriteString(seg.value)
			continue
		}
		v, ok := values[seg.value]
		if !ok {
			return "", fmt.Errorf("no value for placeholder %q", seg.value)
		}
		out.WriteString(fmt.Sprint(v))
	}

	return out.String(), nil
}

// fstringVariables returns the distinct field names in segments, in first
// appearance order.
func fstringVariables(segments []fsSegment) []string {
	seen := make(map[string]bool)
	var vars []string

	for _, seg := range segments {
		if seg.field && !seen[seg.value] {
			seen[seg.value] = true
			vars = append(vars, seg.value)
		}
	}

	return vars
}

// isFieldName reports whether s is a valid placeholder name.
func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
