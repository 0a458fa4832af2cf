package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/guard"
	"github.com/felixgeelhaar/markup/internal/tui"
)

func newTUICmd() *cobra.Command {
	var route string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive app",
		Long: `Open the full-screen app. It is also what runs when markup is started
without a subcommand in a terminal.

--route opens a specific screen: landing, signin, upgrade, settings,
exam-answer, study-tools or the-marker. Screens that need an account send
you to sign in first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, ok := guard.ParseRoute(route)
			if !ok {
				return UnknownRouteError(route)
			}
			if !isInteractive() {
				return NotInteractiveError("The interactive app",
					"Use the subcommands instead, see 'markup --help'")
			}
			return runTUI(cmd, start)
		},
	}

	cmd.Flags().StringVar(&route, "route", "", "screen to open first")
	return cmd
}

// Replaced in tests, which run without a terminal.
var (
	isInteractive = tui.IsInteractive
	runApp        = tui.Run
)

func runTUI(cmd *cobra.Command, start guard.Route) error {
	a, err := newScreenApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Debug("starting interactive app", "route", start)
	return runApp(commandContext(cmd), a.tuiDeps(), start)
}
