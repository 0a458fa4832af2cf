package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/guard"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/tier"
)

type upgradeMsg struct {
	result *session.UpgradeResult
	err    error
}

// upgradeScreen shows the plans and simulates an upgrade.
type upgradeScreen struct {
	env    *env
	cursor int
	busy   bool
}

func newUpgrade(e *env) *upgradeScreen {
	m := &upgradeScreen{env: e}
	for i, p := range tier.Plans {
		if p.Tier == m.current() {
			m.cursor = i
		}
	}
	return m
}

func (m *upgradeScreen) current() tier.Tier {
	if p := m.env.profile(); p != nil {
		return p.Tier.OrFree()
	}
	return tier.Free
}

func (m *upgradeScreen) Init() tea.Cmd { return nil }

func (m *upgradeScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case upgradeMsg:
		m.busy = false
		if msg.err != nil {
			return m, func() tea.Msg {
				return noticeMsg{text: "Upgrade failed: " + errors.Message(msg.err), isErr: true}
			}
		}
		return m, notify("Successfully upgraded to " + msg.result.Tier.DisplayName() + "!")

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Down):
			if m.cursor < len(tier.Plans)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Select):
			return m, m.choose(tier.Plans[m.cursor].Tier)
		}
	}
	return m, nil
}

func (m *upgradeScreen) choose(t tier.Tier) tea.Cmd {
	if m.env.profile() == nil {
		return navigate(guard.SignIn)
	}
	if t == m.current() {
		return notify("You are already on this plan")
	}

	m.busy = true
	ctx, sessions := m.env.ctx, m.env.deps.Sessions
	return func() tea.Msg {
		result, err := sessions.UpgradeTier(ctx, t)
		return upgradeMsg{result: result, err: err}
	}
}

func (m *upgradeScreen) View() string {
	s := m.env.styles
	current := m.current()

	cards := make([]string, len(tier.Plans))
	for i, p := range tier.Plans {
		var b strings.Builder
		b.WriteString(s.Status.Render(p.Name))
		if p.Badge != "" {
			b.WriteString(" " + s.Badge.Render(p.Badge))
		}
		b.WriteString("\n")
		b.WriteString(p.Price + " " + s.Muted.Render(p.Period) + "\n")
		b.WriteString(s.Muted.Render(p.Description) + "\n\n")
		for _, f := range p.Features {
			if f.Included {
				b.WriteString(s.Success.Render("✓") + " " + f.Text + "\n")
			} else {
				b.WriteString(s.Muted.Render("- "+f.Text) + "\n")
			}
		}
		b.WriteString("\n")
		label := p.ButtonLabel(current)
		if i == m.cursor {
			label = s.Highlighted.Render(label)
		}
		b.WriteString(label)

		style := s.Card
		if i == m.cursor {
			style = s.ActiveCard
		}
		cards[i] = style.Render(b.String())
	}

	out := s.Subtitle.Render("Choose your plan") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n" +
		s.Muted.Render("Demo mode: upgrades are simulated, no payment is taken.")
	if m.busy {
		out += "\n" + m.env.spinner() + " Upgrading..."
	}
	return out
}

func (m *upgradeScreen) Help() []key.Binding {
	return []key.Binding{keys.Left, keys.Right, keys.Select}
}
