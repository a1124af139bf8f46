// Package controllers holds the logic behind the CLI commands, kept out of
// the cobra layer so it can be tested against any writer.
package controllers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/prompthub/pkg/prompt"
)

var (
	roleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFA500")) // Orange

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")) // Gold
)

// TemplateResolver is the resolver surface the controller needs.
type TemplateResolver interface {
	Resolve(ctx context.Context, identifier string) (prompt.Template, error)
	Raw(ctx context.Context, identifier string) ([]byte, string, error)
}

// TemplatesController drives template operations for the CLI.
type TemplatesController struct {
	resolver TemplateResolver
}

func NewTemplatesController(resolver TemplateResolver) *TemplatesController {
	return &TemplatesController{
		resolver: resolver,
	}
}

// Render resolves the identifier and writes the rendered output. With
// asMessages set, chat templates are written as role-tagged blocks instead
// of a single joined string.
func (tc *TemplatesController) Render(ctx context.Context, writer io.Writer, identifier string, values map[string]any, asMessages bool) error {
	template, err := tc.resolver.Resolve(ctx, identifier)
	if err != nil {
		return err
	}

	if asMessages {
		mt, ok := template.(prompt.MessageTemplate)
		if !ok {
			return fmt.Errorf("template %s does not render messages (kind %s)", identifier, template.Kind())
		}

		messages, err := mt.RenderMessages(values)
		if err != nil {
			return err
		}

		for i, msg := range messages {
			if i > 0 {
				fmt.Fprintln(writer)
			}
			fmt.Fprintln(writer, roleStyle.Render("["+msg.Role+"]"))
			fmt.Fprintln(writer, msg.Content)
		}
		return nil
	}

	output, err := template.Render(values)
	if err != nil {
		return err
	}

	fmt.Fprintln(writer, output)
	return nil
}

// Validate resolves the identifier and reports the outcome. Warnings are
// written to the writer; a validation failure comes back as the resolver's
// error so the caller can set the exit code.
func (tc *TemplatesController) Validate(ctx context.Context, writer io.Writer, identifier string) error {
	template, err := tc.resolver.Resolve(ctx, identifier)
	if err != nil {
		return err
	}

	for _, warning := range template.Warnings() {
		fmt.Fprintln(writer, warnStyle.Render("warning: "+warning))
	}

	variables := template.InputVariables()
	if len(variables) == 0 {
		fmt.Fprintf(writer, "%s is a valid %s template with no input variables\n", identifier, template.Kind())
		return nil
	}

	fmt.Fprintf(writer, "%s is a valid %s template, variables: %s\n", identifier, template.Kind(), strings.Join(variables, ", "))
	return nil
}

// Show writes the template definition as stored. Unless plain is set the
// output is syntax highlighted for the terminal.
func (tc *TemplatesController) Show(ctx context.Context, writer io.Writer, identifier string, plain bool) error {
	data, syntax, err := tc.resolver.Raw(ctx, identifier)
	if err != nil {
		return err
	}

	if plain {
		_, err = writer.Write(data)
		return err
	}

	highlighted, err := highlight(string(data), syntax)
	if err != nil {
		// Highlighting is cosmetic, fall back to the raw bytes.
		_, err = writer.Write(data)
		return err
	}

	_, err = io.WriteString(writer, highlighted)
	return err
}

// List writes the built-in template catalog as a table.
func (tc *TemplatesController) List(writer io.Writer) error {
	registry, err := prompt.Builtins()
	if err != nil {
		return fmt.Errorf("failed to load built-in templates: %w", err)
	}

	names := registry.List()
	if len(names) == 0 {
		fmt.Fprintln(writer, "No templates found")
		return nil
	}

	w := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tVARIABLES")

	for _, name := range names {
		template, err := registry.Get(name)
		if err != nil {
			return err
		}

		variables := template.InputVariables()
		sort.Strings(variables)

		fmt.Fprintf(w, "%s\t%s\t%s\n",
			name,
			template.Kind(),
			strings.Join(variables, ", "))
	}

	return w.Flush()
}

// ListDir writes the template files found in dir as a table. Files that do
// not resolve are reported as warnings after the table instead of aborting
// the listing.
func (tc *TemplatesController) ListDir(ctx context.Context, writer io.Writer, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve templates directory: %w", err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	w := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	var skipped []string
	listed := 0

	for _, entry := range entries {
		if entry.IsDir() || !hasTemplateExt(entry.Name()) {
			continue
		}

		template, err := tc.resolver.Resolve(ctx, filepath.Join(abs, entry.Name()))
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}

		if listed == 0 {
			fmt.Fprintln(w, "NAME\tKIND\tVARIABLES")
		}
		listed++

		variables := template.InputVariables()
		sort.Strings(variables)

		fmt.Fprintf(w, "%s\t%s\t%s\n",
			entry.Name(),
			template.Kind(),
			strings.Join(variables, ", "))
	}

	if listed == 0 && len(skipped) == 0 {
		fmt.Fprintln(writer, "No templates found")
		return nil
	}

	if err := w.Flush(); err != nil {
		return err
	}

	for _, warning := range skipped {
		fmt.Fprintln(writer, warnStyle.Render("warning: "+warning))
	}
	return nil
}

// hasTemplateExt reports whether name carries an extension the resolver
// accepts.
func hasTemplateExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json", ".txt":
		return true
	}
	return false
}

// highlight applies terminal syntax highlighting to a template definition.
func highlight(content, syntax string) (string, error) {
	lexer := lexers.Get(syntax)
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, styles.Get("monokai"), iterator); err != nil {
		return "", err
	}

	return buf.String(), nil
}
