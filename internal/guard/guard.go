// Package guard decides whether a route may be shown for the current session.
package guard

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/markup/internal/session"
)

// Route identifies a screen.
type Route string

const (
	Landing    Route = "landing"
	SignIn     Route = "signin"
	Upgrade    Route = "upgrade"
	Settings   Route = "settings"
	ExamAnswer Route = "exam-answer"
	StudyTools Route = "study-tools"
	TheMarker  Route = "the-marker"
)

var protected = map[Route]bool{
	Settings:   true,
	ExamAnswer: true,
	StudyTools: true,
	TheMarker:  true,
}

var public = map[Route]bool{
	Landing: true,
	SignIn:  true,
	Upgrade: true,
}

// Known reports whether r is a defined route.
func (r Route) Known() bool {
	return protected[r] || public[r]
}

// Protected reports whether r requires a signed-in user.
func (r Route) Protected() bool {
	return protected[r]
}

// ParseRoute accepts route names and URL-style paths ("/the-marker", "/auth").
// The boolean is false for unknown input.
func ParseRoute(s string) (Route, bool) {
	s = strings.Trim(strings.ToLower(strings.TrimSpace(s)), "/")
	switch s {
	case "":
		return Landing, true
	case "auth", "login", "sign-in":
		return SignIn, true
	}
	r := Route(s)
	return r, r.Known()
}

// State is the guard's view of the session.
type State int

const (
	Loading State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Decision is the outcome of entering a route.
type Decision struct {
	State State
	// Route is where the user ends up: the requested route, or the redirect target.
	Route Route
	// Redirect is true when Route differs from the requested route.
	Redirect bool
	// Replace means the redirect must replace the current history entry.
	Replace bool
}

// Render reports whether the route content may be shown now.
// Public routes render while the session is still loading.
func (d Decision) Render() bool {
	return d.State != Loading || !d.Route.Protected()
}

// SessionSource is what the guard reads.
type SessionSource interface {
	Snapshot() session.Session
	Wait(ctx context.Context) error
}

// Guard evaluates route entries against the session.
type Guard struct {
	sessions SessionSource
}

// New creates a Guard over sessions.
func New(sessions SessionSource) *Guard {
	return &Guard{sessions: sessions}
}

// State derives the current state from a fresh snapshot.
func (g *Guard) State() State {
	return stateOf(g.sessions.Snapshot())
}

func stateOf(s session.Session) State {
	switch {
	case s.Loading:
		return Loading
	case s.User != nil:
		return Authenticated
	default:
		return Unauthenticated
	}
}

// Enter decides what happens when the user navigates to r.
// While loading, protected routes are deferred rather than redirected.
func (g *Guard) Enter(r Route) Decision {
	state := g.State()

	if !r.Known() {
		return Decision{State: state, Route: Landing, Redirect: true, Replace: true}
	}
	if !r.Protected() {
		return Decision{State: state, Route: r}
	}

	switch state {
	case Loading:
		return Decision{State: Loading, Route: r}
	case Unauthenticated:
		return Decision{State: Unauthenticated, Route: SignIn, Redirect: true, Replace: true}
	default:
		return Decision{State: Authenticated, Route: r}
	}
}

// Await blocks until the session is no longer loading, then enters r.
func (g *Guard) Await(ctx context.Context, r Route) (Decision, error) {
	if err := g.sessions.Wait(ctx); err != nil {
		return Decision{State: Loading, Route: r}, err
	}
	return g.Enter(r), nil
}
