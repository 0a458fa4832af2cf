package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/guard"
	"github.com/felixgeelhaar/markup/internal/marker"
)

type replyMsg struct {
	reply marker.Message
	err   error
}

// chatScreen is the conversation with The Marker.
type chatScreen struct {
	env     *env
	input   textinput.Model
	pending string
	denied  error
}

func newChat(e *env) *chatScreen {
	in := textinput.New()
	in.Placeholder = "Ask The Marker about your exam..."
	in.CharLimit = 2000
	in.Prompt = "› "
	return &chatScreen{env: e, input: in}
}

func (m *chatScreen) Init() tea.Cmd {
	if err := m.env.deps.Chat.CheckAccess(); err != nil {
		m.denied = err
		return nil
	}
	return m.input.Focus()
}

func (m *chatScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		m.pending = ""
		if msg.err != nil {
			return m, notifyErr(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.denied != nil {
			if key.Matches(msg, keys.Select) {
				return m, navigate(guard.Upgrade)
			}
			return m, nil
		}
		if m.pending == "" && key.Matches(msg, keys.Select) {
			return m, m.send()
		}
	}

	if m.denied != nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatScreen) send() tea.Cmd {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return nil
	}
	m.input.Reset()
	m.pending = question

	ctx, chat := m.env.ctx, m.env.deps.Chat
	return func() tea.Msg {
		reply, err := chat.Ask(ctx, question)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *chatScreen) View() string {
	s := m.env.styles
	var b strings.Builder
	b.WriteString(s.Subtitle.Render("The Marker"))
	b.WriteString("\n")

	if m.denied != nil {
		b.WriteString(s.Warning.Render(errors.Message(m.denied)))
		b.WriteString("\n")
		if errors.KindOf(m.denied) == errors.KindAccess {
			b.WriteString(s.Muted.Render("Press enter to see plans."))
		}
		return b.String()
	}

	messages := m.env.deps.Chat.Messages()
	if len(messages) == 0 && m.pending == "" {
		b.WriteString(s.Muted.Render("Ask how a question would be marked, what examiners look for, or how to improve an answer."))
		b.WriteString("\n")
	}
	for _, msg := range messages {
		b.WriteString(m.renderMessage(msg.Role, msg.Content))
	}
	if m.pending != "" {
		// Ask appends the question itself before the request goes out
		b.WriteString(m.env.spinner() + " " + s.Muted.Render("The Marker is thinking..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m *chatScreen) renderMessage(role marker.Role, content string) string {
	s := m.env.styles
	if role == marker.RoleUser {
		return s.UserBubble.Render("You: "+content) + "\n"
	}
	return s.ReplyBubble.Render("The Marker: "+content) + "\n\n"
}

func (m *chatScreen) Help() []key.Binding {
	return []key.Binding{keys.Select}
}
