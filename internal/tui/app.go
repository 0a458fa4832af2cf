// Package tui is the interactive terminal front end.
package tui

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/education"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/examanswer"
	"github.com/felixgeelhaar/markup/internal/guard"
	"github.com/felixgeelhaar/markup/internal/marker"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/tier"
)

// noticeTTL is how long a notification line stays visible.
const noticeTTL = 4 * time.Second

// Sessions is the session store as the UI sees it.
type Sessions interface {
	guard.SessionSource
	Subscribe(fn func(session.Session)) (unsubscribe func())
	Login(ctx context.Context, email, password string) (*api.Profile, error)
	Register(ctx context.Context, email, password, name string) (*api.Profile, error)
	Logout()
	UpgradeTier(ctx context.Context, t tier.Tier) (*session.UpgradeResult, error)
}

// Education loads lookups and saves the education setup.
type Education interface {
	Countries(ctx context.Context) ([]string, error)
	Levels(ctx context.Context, country string) ([]string, error)
	Boards(ctx context.Context, country, level string) ([]string, error)
	Save(ctx context.Context, form *education.Form) (*api.Profile, error)
}

// Answers generates model exam answers.
type Answers interface {
	Generate(ctx context.Context, req examanswer.Request) (*api.ExamAnswer, error)
}

// StudyTools generates flashcards and notes.
type StudyTools interface {
	Flashcards(ctx context.Context, topic, subject string, count int) ([]api.Flashcard, error)
	Notes(ctx context.Context, transcript string) (string, error)
}

// Chat is a conversation with The Marker.
type Chat interface {
	CheckAccess() error
	Ask(ctx context.Context, question string) (marker.Message, error)
	Messages() []marker.Message
}

// Deps wires the UI to the application services.
type Deps struct {
	Sessions  Sessions
	Education Education
	Answers   Answers
	Tools     StudyTools
	Chat      Chat
	NoColor   bool
}

// screen is one route's content.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
	Help() []key.Binding
}

// Messages exchanged between the app and its screens.
type (
	navigateMsg struct {
		route   guard.Route
		replace bool
	}
	sessionMsg struct{ session session.Session }
	noticeMsg  struct {
		text  string
		isErr bool
	}
	clearNoticeMsg struct{ seq int }
)

func navigate(r guard.Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r} }
}

func replaceWith(r guard.Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r, replace: true} }
}

func notify(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

func notifyErr(err error) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: errors.Message(err), isErr: true} }
}

// env is shared by the app and every screen.
type env struct {
	ctx    context.Context
	deps   Deps
	styles Styles
	width  int
	height int

	spinner func() string
}

func (e *env) profile() *api.Profile {
	return e.deps.Sessions.Snapshot().User
}

// App is the root bubbletea model. It owns navigation and routes
// every entry through the guard.
type App struct {
	env *env
	nav *guard.Navigator

	decision guard.Decision
	screen   screen

	spinner spinner.Model
	help    help.Model

	notice    string
	noticeErr bool
	noticeSeq int

	updates     chan session.Session
	unsubscribe func()
	quitting    bool
}

// NewApp creates the app positioned at start.
func NewApp(ctx context.Context, deps Deps, start guard.Route) *App {
	styles := DefaultStyles()
	if deps.NoColor {
		styles = PlainStyles()
	}
	e := &env{ctx: ctx, deps: deps, styles: styles}

	nav := guard.NewNavigator(guard.New(deps.Sessions), guard.Landing)
	a := &App{
		env:     e,
		nav:     nav,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		updates: make(chan session.Session, 1),
	}
	e.spinner = func() string { return a.spinner.View() }
	a.decision = nav.Replace(start)
	return a
}

// Route returns the current route.
func (a *App) Route() guard.Route {
	return a.nav.Current()
}

// Init subscribes to session changes and enters the start route.
func (a *App) Init() tea.Cmd {
	a.unsubscribe = a.env.deps.Sessions.Subscribe(func(s session.Session) {
		// newest wins; never block the store
		for {
			select {
			case a.updates <- s:
				return
			default:
			}
			select {
			case <-a.updates:
			default:
			}
		}
	})
	return tea.Batch(a.spinner.Tick, a.waitForSession(), a.enter(a.decision))
}

func (a *App) waitForSession() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-a.updates:
			return sessionMsg{session: s}
		case <-a.env.ctx.Done():
			return nil
		}
	}
}

// enter applies a guard decision. Deferred decisions show the placeholder.
func (a *App) enter(d guard.Decision) tea.Cmd {
	a.decision = d
	if !d.Render() {
		a.screen = nil
		return nil
	}
	a.screen = a.newScreen(d.Route)
	return a.screen.Init()
}

func (a *App) newScreen(r guard.Route) screen {
	switch r {
	case guard.SignIn:
		return newSignIn(a.env)
	case guard.Upgrade:
		return newUpgrade(a.env)
	case guard.Settings:
		return newSettings(a.env)
	case guard.ExamAnswer:
		return newAnswer(a.env)
	case guard.StudyTools:
		return newTools(a.env)
	case guard.TheMarker:
		return newChat(a.env)
	default:
		return newLanding(a.env)
	}
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.env.width = msg.Width
		a.env.height = msg.Height
		a.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a.quit()
		case key.Matches(msg, keys.Back):
			if d, ok := a.nav.Back(); ok {
				return a, a.enter(d)
			}
			return a, nil
		}

	case navigateMsg:
		var d guard.Decision
		if msg.replace {
			d = a.nav.Replace(msg.route)
		} else {
			d = a.nav.Push(msg.route)
		}
		return a, a.enter(d)

	case sessionMsg:
		cmds := []tea.Cmd{a.waitForSession()}
		d := a.nav.Revalidate()
		if d.Route != a.decision.Route || d.Render() != a.decision.Render() {
			cmds = append(cmds, a.enter(d))
		} else {
			a.decision = d
		}
		return a, tea.Batch(cmds...)

	case noticeMsg:
		a.noticeSeq++
		a.notice = msg.text
		a.noticeErr = msg.isErr
		seq := a.noticeSeq
		return a, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })

	case clearNoticeMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.screen == nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.screen, cmd = a.screen.Update(msg)
	return a, cmd
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.quitting = true
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	return a, tea.Quit
}

// View renders the TUI (required by Bubble Tea)
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	s := a.env.styles
	var b strings.Builder

	b.WriteString(a.header())
	b.WriteString("\n\n")

	if a.screen == nil {
		b.WriteString(a.spinner.View() + " " + s.Muted.Render("Checking your session..."))
	} else {
		b.WriteString(a.screen.View())
	}
	b.WriteString("\n")

	if a.notice != "" {
		b.WriteString("\n")
		if a.noticeErr {
			b.WriteString(s.Error.Render("✗ " + a.notice))
		} else {
			b.WriteString(s.Success.Render("✓ " + a.notice))
		}
		b.WriteString("\n")
	}

	var help []key.Binding
	if a.screen != nil {
		help = a.screen.Help()
	}
	help = append(help, keys.Back, keys.Quit)
	b.WriteString(s.Help.Render(a.help.View(bindings(help))))

	return b.String()
}

func (a *App) header() string {
	s := a.env.styles
	title := s.Title.Render("MarkUp")
	p := a.env.profile()
	if p == nil {
		return title
	}
	return title + "  " + s.Muted.Render(p.Name) + " " + s.tierBadge(p.Tier)
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, deps Deps, start guard.Route) error {
	app := NewApp(ctx, deps, start)
	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
