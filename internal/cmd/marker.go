package cmd

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/guard"
	"github.com/felixgeelhaar/markup/internal/tui"
)

func newMarkerCmd() *cobra.Command {
	markerCmd := &cobra.Command{
		Use:   "marker",
		Short: "Chat with The Marker, the AI tutor (Pro)",
		Long: `The Marker explains what examiners reward and how an answer would be
marked. Requires Pro and a completed education setup.

In a terminal this opens the chat screen. Otherwise every line read from
stdin is asked as a question and each reply is printed, so the conversation
keeps its context.

Examples:
  markup marker
  markup marker ask "How is AO2 assessed in GCSE English Literature?"
  printf 'What is AO1?\nAnd AO3?\n' | markup marker`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tui.ShouldPrompt() {
				return runTUI(cmd, guard.TheMarker)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			if _, err := a.session(ctx); err != nil {
				return err
			}
			if err := a.marker.CheckAccess(); err != nil {
				return err
			}

			scanner := bufio.NewScanner(a.stdin)
			scanner.Buffer(make([]byte, 64*1024), 1024*1024)
			for scanner.Scan() {
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				reply, err := a.marker.Ask(ctx, question)
				if err != nil {
					return err
				}
				if err := a.out.Format(replyView{Message: reply}); err != nil {
					return err
				}
			}
			if err := scanner.Err(); err != nil {
				return errors.Wrap(errors.ErrCodeFileReadFailed, "could not read questions from stdin", err)
			}
			return nil
		},
	}

	markerCmd.AddCommand(newMarkerAskCmd())
	return markerCmd
}

func newMarkerAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask The Marker a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			if _, err := a.session(ctx); err != nil {
				return err
			}

			reply, err := a.marker.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.out.Format(replyView{Message: reply})
		},
	}
}
