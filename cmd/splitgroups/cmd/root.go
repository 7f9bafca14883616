// Package cmd provides the CLI commands for splitgroups.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set via ldflags at build time in main.go.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Root builds the command tree. Every call returns a fresh tree so flag
// state never leaks between runs.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "splitgroups",
		Short: "Shared expense tracking with equal and percentage splits",
		Long: `splitgroups tracks expenses shared inside groups of people.

It splits each expense equally or by percentage, works out who owes whom,
and serves the group and expense APIs over Connect RPC.`,
		SilenceUsage: true,
	}
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	root.SetVersionTemplate("splitgroups {{.Version}}\n")

	root.PersistentFlags().String("config", "", "Path to a YAML config file")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(newServeCmd(), newSplitCmd(), newBalancesCmd())
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := Root().Execute(); err != nil {
		os.Exit(1)
	}
}
