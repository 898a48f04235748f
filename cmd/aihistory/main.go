// Package main implements the aihistory CLI, which finds unfinished
// projects in exported AI assistant chat histories.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "aihistory",
		Short: "Analyze AI chat histories for unfinished projects",
		Long: `aihistory reads conversation exports from ChatGPT, Claude and Gemini,
finds work that was planned or started but never finished, and ranks it
by confidence and recency.

Results are printed as a summary or exported as JSON or as Obsidian notes.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default ./config.yaml when present)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newListCmd(opts),
		newInitConfigCmd(),
		newPatternsCmd(opts),
	)
	return cmd
}
