package tui

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/studytools"
)

var deckHelp = []key.Binding{keys.Flip, keys.Left, keys.Right, keys.Reset}

// updateDeck applies a study key to deck.
func updateDeck(deck *studytools.Deck, km tea.KeyMsg) {
	switch {
	case key.Matches(km, keys.Flip):
		deck.Flip()
	case key.Matches(km, keys.Right):
		deck.Next()
	case key.Matches(km, keys.Left):
		deck.Prev()
	case key.Matches(km, keys.Reset):
		deck.Reset()
	}
}

func renderDeck(s Styles, deck *studytools.Deck) string {
	card, ok := deck.Current()
	if !ok {
		return s.Muted.Render("No flashcards were generated.")
	}

	side, text := "Question", card.Question
	if deck.Flipped() {
		side, text = "Answer", card.Answer
	}

	progress := fmt.Sprintf("Card %d of %d (%.0f%%)", deck.Index()+1, deck.Len(), deck.Progress()*100)
	return s.Muted.Render(progress) + "\n\n" +
		s.Border.Render(s.Status.Render(side)+"\n\n"+text)
}

// deckModel is the standalone study program behind `flashcards --study`.
type deckModel struct {
	deck   *studytools.Deck
	styles Styles
	help   help.Model
	done   bool
}

func newDeckModel(cards []api.Flashcard, noColor bool) *deckModel {
	styles := DefaultStyles()
	if noColor {
		styles = PlainStyles()
	}
	return &deckModel{deck: studytools.NewDeck(cards), styles: styles, help: help.New()}
}

func (m *deckModel) Init() tea.Cmd { return nil }

func (m *deckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit, keys.Back) || msg.String() == "q" {
			m.done = true
			return m, tea.Quit
		}
		updateDeck(m.deck, msg)
	}
	return m, nil
}

func (m *deckModel) View() string {
	if m.done {
		return ""
	}
	return m.styles.Title.Render("Flashcards") + "\n\n" +
		renderDeck(m.styles, m.deck) + "\n" +
		m.styles.Help.Render(m.help.View(bindings(append(deckHelp, keys.Back))))
}

// RunDeck studies cards until the user quits.
func RunDeck(ctx context.Context, cards []api.Flashcard, noColor bool) error {
	_, err := tea.NewProgram(newDeckModel(cards, noColor), tea.WithContext(ctx)).Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
