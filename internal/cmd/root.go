// Package cmd implements the markup command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/guard"
	"github.com/felixgeelhaar/markup/internal/tui"
)

// newRootCmd builds the command tree. A fresh tree per run keeps flag
// values from leaking between invocations.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "markup",
		Short: "Exam answers, study tools and an AI tutor that think like an examiner",
		Long: `markup is the terminal client for MarkUp.

It writes model exam answers the way examiners mark them, turns topics and
video transcripts into flashcards and study notes, and lets Pro users ask
The Marker, an AI tutor, how their answers would be assessed.

Run without a subcommand in a terminal to open the interactive app.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.ShouldPrompt() {
				return cmd.Help()
			}
			return runTUI(cmd, guard.Landing)
		},
	}

	flags := root.PersistentFlags()
	flags.String("home", "", "markup home directory (default $MARKUP_HOME or ~/.markup)")
	flags.String("api-url", "", "backend base URL (overrides api.base_url)")
	flags.String("format", "text", "output format: text, json or yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.BoolP("verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newAuthCmd(),
		newSettingsCmd(),
		newAnswerCmd(),
		newFlashcardsCmd(),
		newNotesCmd(),
		newMarkerCmd(),
		newUpgradeCmd(),
		newConfigCmd(),
		newTUICmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which cancels in-flight
// requests when done.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
