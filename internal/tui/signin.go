package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/guard"
)

const (
	modeSignIn   = "signin"
	modeRegister = "register"
)

type authDoneMsg struct {
	profile  *api.Profile
	register bool
	err      error
}

// signInScreen signs in or registers. On success it continues to settings.
type signInScreen struct {
	env  *env
	step *formStep
	busy bool

	mode     string
	name     string
	email    string
	password string
}

func newSignIn(e *env) *signInScreen {
	m := &signInScreen{env: e, mode: modeSignIn}
	m.build()
	return m
}

func (m *signInScreen) build() {
	m.password = ""
	m.step = newFormStep(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome to MarkUp").
				Options(
					huh.NewOption("Sign in", modeSignIn),
					huh.NewOption("Create an account", modeRegister),
				).
				Value(&m.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.name).
				Validate(required("name")),
		).WithHideFunc(func() bool { return m.mode != modeRegister }),
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.email).
				Validate(required("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(required("password")),
		),
	)
}

func (m *signInScreen) Init() tea.Cmd {
	return m.step.Init()
}

func (m *signInScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.build()
			return m, tea.Batch(notifyErr(msg.err), m.step.Init())
		}
		text := "Welcome back, " + msg.profile.Name
		if msg.register {
			text = "Account created"
		}
		return m, tea.Batch(notify(text), replaceWith(guard.Settings))
	}

	if m.busy {
		return m, nil
	}
	done, cmd := m.step.update(msg)
	if done {
		m.busy = true
		return m, tea.Batch(cmd, m.submit())
	}
	return m, cmd
}

func (m *signInScreen) submit() tea.Cmd {
	ctx, sessions := m.env.ctx, m.env.deps.Sessions
	mode, name, email, password := m.mode, m.name, m.email, m.password
	return func() tea.Msg {
		if mode == modeRegister {
			p, err := sessions.Register(ctx, email, password, name)
			return authDoneMsg{profile: p, register: true, err: err}
		}
		p, err := sessions.Login(ctx, email, password)
		return authDoneMsg{profile: p, err: err}
	}
}

func (m *signInScreen) View() string {
	if m.busy {
		verb := "Signing in"
		if m.mode == modeRegister {
			verb = "Creating your account"
		}
		return m.env.spinner() + " " + verb + "..."
	}
	return m.step.View()
}

func (m *signInScreen) Help() []key.Binding { return nil }
