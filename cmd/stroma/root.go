package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	endpoint string
	token    string
	cacheDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stroma",
	Short: "Content reconciliation for the Stroma marketing site",
	Long: `Stroma merges compiled-in seed content with remote and locally cached
edits into one canonical record list, and ships a thin content API server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", os.Getenv("STROMA_ENDPOINT"), "Remote content API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("STROMA_TOKEN"), "Bearer token for the content API")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Local cache directory (defaults to ~/.stroma)")
}
