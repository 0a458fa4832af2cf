package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/examanswer"
	"github.com/felixgeelhaar/markup/internal/guard"
	"github.com/felixgeelhaar/markup/internal/studytools"
)

type toolsPhase int

const (
	phaseCatalog toolsPhase = iota
	phaseForm
	phaseBusy
	phaseDeck
	phaseNotes
)

type flashcardsMsg struct {
	cards []api.Flashcard
	err   error
}

type notesMsg struct {
	notes string
	err   error
}

// toolsScreen lists the study tools and runs flashcards and notes.
type toolsScreen struct {
	env    *env
	phase  toolsPhase
	cursor int
	tool   string

	step *formStep

	topic      string
	subject    string
	count      string
	transcript string

	deck     *studytools.Deck
	viewport viewport.Model
}

func newTools(e *env) *toolsScreen {
	return &toolsScreen{env: e, count: strconv.Itoa(studytools.DefaultFlashcardCount)}
}

func (m *toolsScreen) Init() tea.Cmd { return nil }

func (m *toolsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case flashcardsMsg:
		if msg.err != nil {
			m.phase = phaseForm
			m.buildForm()
			return m, tea.Batch(notifyErr(msg.err), m.step.Init())
		}
		m.deck = studytools.NewDeck(msg.cards)
		m.phase = phaseDeck
		return m, notify(fmt.Sprintf("Generated %d flashcards", m.deck.Len()))

	case notesMsg:
		if msg.err != nil {
			m.phase = phaseForm
			m.buildForm()
			return m, tea.Batch(notifyErr(msg.err), m.step.Init())
		}
		m.phase = phaseNotes
		m.viewport = viewport.New(m.width(), m.viewHeight())
		m.viewport.SetContent(msg.notes)
		return m, nil
	}

	switch m.phase {
	case phaseCatalog:
		return m.updateCatalog(msg)
	case phaseForm:
		done, cmd := m.step.update(msg)
		if done {
			return m, tea.Batch(cmd, m.submit())
		}
		return m, cmd
	case phaseDeck:
		return m.updateDeck(msg)
	case phaseNotes:
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Reset) {
			m.phase = phaseCatalog
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *toolsScreen) updateCatalog(msg tea.Msg) (screen, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	tools := studytools.Tools(m.env.profile())

	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(tools)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.Select):
		t := tools[m.cursor]
		if t.Locked {
			return m, tea.Batch(notifyErr(access.Require(m.env.profile(), t.Feature)), navigate(guard.Upgrade))
		}
		if t.Feature == access.TheMarker {
			return m, navigate(guard.TheMarker)
		}
		m.tool = t.ID
		m.phase = phaseForm
		m.buildForm()
		return m, m.step.Init()
	}
	return m, nil
}

func (m *toolsScreen) buildForm() {
	if m.tool == "transcript" {
		m.step = newFormStep(huh.NewGroup(
			huh.NewText().
				Title("Paste the video transcript").
				Lines(10).
				CharLimit(0).
				Value(&m.transcript).
				Validate(required("transcript")),
		))
		return
	}

	m.step = newFormStep(huh.NewGroup(
		huh.NewInput().
			Title("Topic").
			Value(&m.topic).
			Validate(required("topic")),
		huh.NewSelect[string]().
			Title("Subject").
			Options(stringOptions(examanswer.Subjects)...).
			Value(&m.subject),
		huh.NewInput().
			Title("Number of cards").
			Value(&m.count).
			Validate(optionalRange(1, 100)),
	))
}

func (m *toolsScreen) submit() tea.Cmd {
	m.phase = phaseBusy
	ctx, svc := m.env.ctx, m.env.deps.Tools

	if m.tool == "transcript" {
		transcript := m.transcript
		return func() tea.Msg {
			notes, err := svc.Notes(ctx, transcript)
			return notesMsg{notes: notes, err: err}
		}
	}

	topic, subject := m.topic, m.subject
	count, _ := strconv.Atoi(strings.TrimSpace(m.count))
	return func() tea.Msg {
		cards, err := svc.Flashcards(ctx, topic, subject, count)
		return flashcardsMsg{cards: cards, err: err}
	}
}

func (m *toolsScreen) updateDeck(msg tea.Msg) (screen, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		updateDeck(m.deck, km)
	}
	return m, nil
}

func (m *toolsScreen) width() int {
	if m.env.width > 0 {
		return m.env.width
	}
	return 80
}

func (m *toolsScreen) viewHeight() int {
	if m.env.height > 10 {
		return m.env.height - 8
	}
	return 20
}

func (m *toolsScreen) View() string {
	s := m.env.styles
	switch m.phase {
	case phaseForm:
		return m.step.View()
	case phaseBusy:
		if m.tool == "transcript" {
			return m.env.spinner() + " Turning the transcript into notes..."
		}
		return m.env.spinner() + " Generating flashcards..."
	case phaseDeck:
		return renderDeck(s, m.deck)
	case phaseNotes:
		return s.Subtitle.Render("Study notes") + "\n" + m.viewport.View()
	}

	var b strings.Builder
	b.WriteString(s.Subtitle.Render("Study Tools"))
	b.WriteString("\n")
	for i, t := range studytools.Tools(m.env.profile()) {
		line := t.Title + "  " + s.Muted.Render(t.Description)
		if t.Locked {
			line += "  " + s.Warning.Render("🔒 "+t.Tier.DisplayName()+" "+t.Price)
		}
		if i == m.cursor {
			b.WriteString(s.Selected.Render("> " + line))
		} else {
			b.WriteString(s.Item.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *toolsScreen) Help() []key.Binding {
	switch m.phase {
	case phaseCatalog:
		return []key.Binding{keys.Up, keys.Down, keys.Select}
	case phaseDeck:
		return deckHelp
	case phaseNotes:
		return []key.Binding{keys.Up, keys.Down, keys.Reset}
	}
	return nil
}
