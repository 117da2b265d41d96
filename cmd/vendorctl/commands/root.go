package commands

import (
	"github.com/arnavshah/vendor-match-api/pkg/config"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "vendorctl",
	Short:         "Wedding vendor matching tools",
	Long:          `Score and rank wedding vendors offline, inspect how free text is parsed, and mint API keys.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")

	// Register subcommands
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(parseCmd)
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}
