package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/education"
	"github.com/felixgeelhaar/markup/internal/guard"
)

type menuItem struct {
	label string
	hint  string
	route guard.Route
	// signOut marks the sign-out entry, which has no route.
	signOut bool
}

// landingScreen is the home menu.
type landingScreen struct {
	env    *env
	cursor int
}

func newLanding(e *env) *landingScreen {
	return &landingScreen{env: e}
}

func (m *landingScreen) items() []menuItem {
	p := m.env.profile()
	items := []menuItem{
		{label: "Exam Answer", hint: "Model answers written the way examiners mark", route: guard.ExamAnswer},
		{label: "Study Tools", hint: "Flashcards and transcript notes", route: guard.StudyTools},
		{label: "The Marker", hint: "Ask the AI tutor", route: guard.TheMarker},
		{label: "Settings", hint: "Country, level, exam board and language", route: guard.Settings},
		{label: "Plans", hint: "Compare Free, Study+ and Pro", route: guard.Upgrade},
	}
	if p == nil {
		return append(items, menuItem{label: "Sign in", hint: "Or create an account", route: guard.SignIn})
	}
	return append(items, menuItem{label: "Sign out", signOut: true})
}

func (m *landingScreen) Init() tea.Cmd { return nil }

func (m *landingScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := m.items()
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}

	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.Select):
		item := items[m.cursor]
		if item.signOut {
			m.cursor = 0
			return m, m.signOut()
		}
		return m, navigate(item.route)
	}
	return m, nil
}

func (m *landingScreen) signOut() tea.Cmd {
	sessions := m.env.deps.Sessions
	return func() tea.Msg {
		sessions.Logout()
		return noticeMsg{text: "Signed out"}
	}
}

func (m *landingScreen) View() string {
	s := m.env.styles
	var b strings.Builder

	p := m.env.profile()
	if p == nil {
		b.WriteString(s.Subtitle.Render("Exam preparation that thinks like an examiner."))
	} else {
		b.WriteString(s.Subtitle.Render("Welcome back, " + p.Name))
		b.WriteString("\n")
		if access.HasEducationSetup(p) {
			b.WriteString(s.Muted.Render(education.NewForm(p).Summary()))
		} else {
			b.WriteString(s.Warning.Render("Finish your education setup in Settings to use the tools."))
		}
	}
	b.WriteString("\n\n")

	for i, item := range m.items() {
		line := item.label
		if item.hint != "" {
			line += "  " + s.Muted.Render(item.hint)
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

func (m *landingScreen) Help() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Select}
}
