package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/session"
)

type fakeSessions struct {
	snap  session.Session
	ready chan struct{}
}

func (f *fakeSessions) Snapshot() session.Session { return f.snap }

func (f *fakeSessions) Wait(ctx context.Context) error {
	select {
	case <-f.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func loading() *fakeSessions {
	return &fakeSessions{snap: session.Session{Loading: true}, ready: make(chan struct{})}
}

func signedIn() *fakeSessions {
	ready := make(chan struct{})
	close(ready)
	return &fakeSessions{snap: session.Session{Token: "T1", User: &api.Profile{ID: "u1"}}, ready: ready}
}

func signedOut() *fakeSessions {
	ready := make(chan struct{})
	close(ready)
	return &fakeSessions{ready: ready}
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		in    string
		want  Route
		known bool
	}{
		{"/", Landing, true},
		{"", Landing, true},
		{"/auth", SignIn, true},
		{"signin", SignIn, true},
		{"/the-marker", TheMarker, true},
		{"Settings", Settings, true},
		{"/upgrade/", Upgrade, true},
		{"/nowhere", Route("nowhere"), false},
	}
	for _, tt := range tests {
		got, ok := ParseRoute(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.known, ok, tt.in)
	}
}

func TestEnter(t *testing.T) {
	tests := []struct {
		name     string
		sessions *fakeSessions
		route    Route
		want     Decision
	}{
		{"loading protected defers", loading(), Settings, Decision{State: Loading, Route: Settings}},
		{"loading public stays loading", loading(), Upgrade, Decision{State: Loading, Route: Upgrade}},
		{"loading unknown route", loading(), Route("admin"), Decision{State: Loading, Route: Landing, Redirect: true, Replace: true}},
		{"signed out protected redirects", signedOut(), TheMarker, Decision{State: Unauthenticated, Route: SignIn, Redirect: true, Replace: true}},
		{"signed out public", signedOut(), Landing, Decision{State: Unauthenticated, Route: Landing}},
		{"signed in protected", signedIn(), ExamAnswer, Decision{State: Authenticated, Route: ExamAnswer}},
		{"unknown route", signedIn(), Route("admin"), Decision{State: Authenticated, Route: Landing, Redirect: true, Replace: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.sessions).Enter(tt.route))
		})
	}
}

func TestDecisionRender(t *testing.T) {
	assert.False(t, New(loading()).Enter(StudyTools).Render())
	assert.True(t, New(signedIn()).Enter(StudyTools).Render())
	assert.True(t, New(loading()).Enter(Upgrade).Render(), "public routes render while loading")
	assert.True(t, New(loading()).Enter(Route("admin")).Render(), "unknown routes land on the public landing page")
}

func TestStateReDerivedOnEveryEntry(t *testing.T) {
	sessions := signedIn()
	g := New(sessions)
	assert.Equal(t, Authenticated, g.Enter(Settings).State)

	sessions.snap = session.Session{}
	d := g.Enter(Settings)
	assert.Equal(t, Unauthenticated, d.State)
	assert.Equal(t, SignIn, d.Route)
}

func TestAwait(t *testing.T) {
	sessions := loading()
	g := New(sessions)

	go func() {
		time.Sleep(10 * time.Millisecond)
		sessions.snap = session.Session{}
		close(sessions.ready)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	d, err := g.Await(ctx, Settings)
	require.NoError(t, err)
	assert.Equal(t, SignIn, d.Route)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	_, err = New(loading()).Await(ctx, Settings)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNavigatorRedirectReplaces(t *testing.T) {
	n := NewNavigator(New(signedOut()), Landing)

	d := n.Push(Settings)
	assert.True(t, d.Redirect)
	assert.Equal(t, SignIn, n.Current())
	assert.Equal(t, []Route{Landing, SignIn}, n.History(), "protected route never enters history")

	back, ok := n.Back()
	require.True(t, ok)
	assert.Equal(t, Landing, back.Route)

	_, ok = n.Back()
	assert.False(t, ok)
}

func TestNavigatorRevalidateAfterSignOut(t *testing.T) {
	sessions := signedIn()
	n := NewNavigator(New(sessions), Landing)
	n.Push(StudyTools)
	n.Push(TheMarker)
	assert.Equal(t, TheMarker, n.Current())

	sessions.snap = session.Session{}
	d := n.Revalidate()
	assert.Equal(t, SignIn, d.Route)
	assert.Equal(t, []Route{Landing, StudyTools, SignIn}, n.History())

	back, ok := n.Back()
	require.True(t, ok)
	assert.Equal(t, SignIn, back.Route, "going back into a protected route redirects again")
	assert.Equal(t, []Route{Landing, SignIn}, n.History())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
}
