package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/errors"
)

func newNotesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Turn a video transcript into study notes (Study+)",
		Long: `Convert a YouTube transcript into structured study notes. Requires
Study+ or Pro.

The transcript is read from --file, or from stdin when it is not a terminal,
or typed into an editor prompt.

Examples:
  markup notes --file lecture.txt
  pbpaste | markup notes > notes.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			if _, err := a.requireUser(ctx); err != nil {
				return err
			}

			var transcript string
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return errors.Wrap(errors.ErrCodeFileReadFailed, "could not read "+file, err).
						WithSuggestion("Check the path and permissions of the transcript file")
				}
				transcript = string(b)
			}
			if transcript, err = a.askText("Transcript", transcript); err != nil {
				return err
			}

			notes, err := a.tools.Notes(ctx, transcript)
			if err != nil {
				return err
			}
			return a.out.Format(notesView{Notes: notes})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the transcript from a file")
	return cmd
}
