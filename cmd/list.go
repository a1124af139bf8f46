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

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List templates",
	Long: `List templates with their kinds and input variables.

With no arguments the catalog compiled into the binary is listed. With a
directory argument the template files in that directory are listed instead.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		controller := controllers.NewTemplatesController(newResolver())

		var err error
		if len(args) == 1 {
			err = controller.ListDir(cmd.Context(), os.Stdout, args[0])
		} else {
			err = controller.List(os.Stdout)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing templates: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
