package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/examanswer"
	"github.com/felixgeelhaar/markup/internal/studytools"
	"github.com/felixgeelhaar/markup/internal/tui"
)

func newFlashcardsCmd() *cobra.Command {
	var (
		topic   string
		subject string
		count   int
		study   bool
	)

	cmd := &cobra.Command{
		Use:   "flashcards [topic]",
		Short: "Generate flashcards for a topic (Study+)",
		Long: `Generate question and answer cards for a topic. Requires Study+ or Pro.

With --study the cards open in an interactive deck: space flips the card,
the arrow keys move between cards and r starts over.

Examples:
  markup flashcards --subject Chemistry "Ionic bonding"
  markup flashcards --subject History --count 10 --study "Causes of WW1"`,
		Args: cobra.MaximumNArgs(1),
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
			if study && !isInteractive() {
				return NotInteractiveError("Study mode",
					"Run without --study to print the cards",
					"Use --format json to save them")
			}

			if len(args) == 1 {
				topic = args[0]
			}
			if topic, err = a.askString("Topic", topic); err != nil {
				return err
			}
			if subject, err = a.askSelect("Subject", examanswer.Subjects, subject); err != nil {
				return err
			}

			cards, err := a.tools.Flashcards(ctx, topic, subject, count)
			if err != nil {
				return err
			}
			if study {
				return tui.RunDeck(ctx, cards, a.noColor)
			}
			return a.out.Format(flashcardsView{Flashcards: cards})
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "topic to study")
	cmd.Flags().StringVar(&subject, "subject", "", "subject the topic belongs to")
	cmd.Flags().IntVar(&count, "count", studytools.DefaultFlashcardCount, "number of cards, 1 to 100")
	cmd.Flags().BoolVar(&study, "study", false, "study the cards interactively")
	return cmd
}
