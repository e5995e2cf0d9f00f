package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/splitvault/splitvault/internal/client/cli"
	"github.com/splitvault/splitvault/internal/client/config"
	"github.com/splitvault/splitvault/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "splitvault",
	Short: "SplitVault: end-to-end encrypted shared-expense tracking.",
	Long: `splitvault is an interactive client for tracking shared expenses.
All ledger data is encrypted on this machine before it leaves; the server
only ever sees ciphertext. Groups, expenses, repayments, balances, and
settlement plans are managed from a REPL.

Configuration is layered: defaults, then an optional JSON config file
(-c), then flags.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		sl := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger := logging.NewSlogLogger(sl)

		app := cli.NewApp(cfg, logger)
		app.Run(context.Background())
		return nil
	},
}

// version is set via -ldflags at build time.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version.",
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
