package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Spendlog CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spendlog",
		Short: "Spendlog - A personal expense tracking server",
		Long: `Spendlog is a personal expense tracking server with user accounts,
token-based authentication, and a JSON HTTP API.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
