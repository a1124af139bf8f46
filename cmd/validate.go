/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/prompthub/pkg/controllers"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <identifier>",
	Short: "Validate a template definition",
	Long: `Resolve a template by identifier and report whether its declared
input variables match the placeholders in the template text. Warnings
are printed but do not fail the command unless --strict is set.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		controller := controllers.NewTemplatesController(newResolver())
		if err := controller.Validate(cmd.Context(), os.Stdout, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
