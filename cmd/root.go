package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/prompthub/pkg/config"
	"github.com/killallgit/prompthub/pkg/hub"
	"github.com/killallgit/prompthub/pkg/logger"
	"github.com/killallgit/prompthub/pkg/prompt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "prompthub",
	Short: "Resolve, validate, and render prompt templates",
	Long: `prompthub loads prompt templates from local files or a shared
registry, validates their declared variables, and renders them with
values supplied on the command line.

Identifiers are either local paths (greeting.yaml) or hub references
(hub://org/project/greeting), optionally pinned to a registry revision
(hub@v2://org/project/greeting).`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .prompthub/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("templates-dir", ".", "directory for local template identifiers")
	viper.BindPFlag("templates.dir", rootCmd.PersistentFlags().Lookup("templates-dir"))

	rootCmd.PersistentFlags().Bool("strict", false, "treat validation warnings as errors")
	viper.BindPFlag("templates.strict", rootCmd.PersistentFlags().Lookup("strict"))

	rootCmd.PersistentFlags().String("hub-url", "", "registry base URL, a {ref} token is replaced per fetch")
	viper.BindPFlag("hub.base_url", rootCmd.PersistentFlags().Lookup("hub-url"))

	rootCmd.PersistentFlags().String("ref", "", "registry revision for unpinned hub identifiers")
	viper.BindPFlag("hub.ref", rootCmd.PersistentFlags().Lookup("ref"))
}

func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	settings := config.Get()
	logger.Init(settings.Logging.Level, settings.Logging.Format)
}

// newResolver builds the resolver the subcommands share, wired from the
// loaded configuration.
func newResolver() *prompt.Resolver {
	settings := config.Get()

	client := hub.New(
		hub.WithBaseURL(settings.Hub.BaseURL),
		hub.WithRef(settings.Hub.Ref),
		hub.WithAPIKey(settings.Hub.APIKey),
		hub.WithTimeout(settings.Hub.Timeout),
		hub.WithLogger(logger.Component("hub")),
	)

	return prompt.NewResolver(
		prompt.WithBaseDir(settings.Templates.Dir),
		prompt.WithHub(client),
		prompt.WithStrict(settings.Templates.Strict),
		prompt.WithMaxDepth(settings.Templates.MaxDepth),
		prompt.WithLogger(logger.Component("resolver")),
	)
}
