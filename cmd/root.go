package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/espec/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "espec",
	Short: "espec — feature file parser and scenario catalog",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Init(cfgFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
