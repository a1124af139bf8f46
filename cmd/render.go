/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/killallgit/prompthub/pkg/controllers"
	"github.com/spf13/cobra"
)

var (
	renderVars     []string
	renderMessages bool
)

var renderCmd = &cobra.Command{
	Use:   "render <identifier>",
	Short: "Render a template with values",
	Long: `Resolve a template by identifier and render it with the supplied
variables. Variables are passed as repeated --var key=value flags.

Examples:
  prompthub render greeting.yaml --var name=World
  prompthub render hub://org/project/greeting --var name=World
  prompthub render hub://org/assistant --messages --var question="Why is the sky blue?"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		values, err := parseVars(renderVars)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		controller := controllers.NewTemplatesController(newResolver())
		if err := controller.Render(cmd.Context(), os.Stdout, args[0], values, renderMessages); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering template: %v\n", err)
			os.Exit(1)
		}
	},
}

// parseVars converts repeated key=value flags into template values.
func parseVars(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", pair)
		}
		values[key] = value
	}

	return values, nil
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringArrayVar(&renderVars, "var", nil, "template variable as key=value (repeatable)")
	renderCmd.Flags().BoolVar(&renderMessages, "messages", false, "render chat templates as role-tagged messages")
}
