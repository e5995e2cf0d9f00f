package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/splitvault/splitvault/internal/server"
	"github.com/splitvault/splitvault/internal/server/config"
)

var rootCmd = &cobra.Command{
	Use:   "splitvault-server",
	Short: "SplitVault backend: stores sealed ledgers it cannot read.",
	Long: `splitvault-server is the backend for the SplitVault shared-expense
tracker. It authenticates users by derived token, stores encrypted group
ledgers and wrapped keys, and hands out presigned URLs for receipt blobs.
It never holds a password or an unwrapped key.

Configuration is layered: defaults, then SPLITVAULT_* environment
variables, then an optional JSON config file (-c), then flags.`,
	// Flags are parsed by the config layer so they compose with env and JSON.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		app, err := server.NewApp(cfg)
		if err != nil {
			return err
		}
		return app.Run(context.Background())
	},
}

// version is set via -ldflags at build time.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
