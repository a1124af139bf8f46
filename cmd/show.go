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

var showPlain bool

var showCmd = &cobra.Command{
	Use:   "show <identifier>",
	Short: "Print a template definition",
	Long: `Fetch a template definition and print it as stored, without
resolving or rendering it. Output is syntax highlighted for the
terminal unless --plain is set.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		controller := controllers.NewTemplatesController(newResolver())
		if err := controller.Show(cmd.Context(), os.Stdout, args[0], showPlain); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showPlain, "plain", false, "print without syntax highlighting")
}
