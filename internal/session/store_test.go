package session

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/tier"
)

// fakeAPI answers Me from a per-token table. A token mapped to a gate channel
// blocks until the channel is closed or the fetch is canceled.
type fakeAPI struct {
	mu       sync.Mutex
	profiles map[string]*api.Profile
	meErr    map[string]error
	gates    map[string]chan struct{}
	meCalls  map[string]int
	// ignoreCtx makes a gated Me wait for its gate even after cancellation.
	ignoreCtx bool

	loginResp   *api.AuthResponse
	loginErr    error
	upgradeResp *api.UpgradeResponse
	upgradeErr  error
	upgradeHook func()
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		profiles: map[string]*api.Profile{},
		meErr:    map[string]error{},
		gates:    map[string]chan struct{}{},
		meCalls:  map[string]int{},
	}
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Register(ctx context.Context, email, password, name string) (*api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Me(ctx context.Context, token string) (*api.Profile, error) {
	f.mu.Lock()
	f.meCalls[token]++
	gate := f.gates[token]
	f.mu.Unlock()

	if gate != nil && f.ignoreCtx {
		<-gate
	} else if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.meErr[token]; err != nil {
		return nil, err
	}
	if p, ok := f.profiles[token]; ok {
		return p.Clone(), nil
	}
	return nil, errors.New(errors.ErrCodeAuthUnauthorized, "Invalid token").WithStatus(http.StatusUnauthorized)
}

func (f *fakeAPI) Upgrade(ctx context.Context, token string, t tier.Tier) (*api.UpgradeResponse, error) {
	if f.upgradeHook != nil {
		f.upgradeHook()
	}
	if f.upgradeErr != nil {
		return nil, f.upgradeErr
	}
	if f.upgradeResp != nil {
		return f.upgradeResp, nil
	}
	return &api.UpgradeResponse{Tier: t}, nil
}

func (f *fakeAPI) calls(token string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls[token]
}

func waitReady(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestStartWithoutToken(t *testing.T) {
	fake := newFakeAPI()
	s := New(fake, NewMemoryTokenStore(""))
	assert.True(t, s.Snapshot().Loading, "store starts loading")

	s.Start(context.Background())
	defer s.Close()

	select {
	case <-s.Ready():
	default:
		t.Fatal("Ready should be closed immediately without a token")
	}
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	assert.Zero(t, fake.calls(""))
}

func TestBootstrapRestoresProfile(t *testing.T) {
	fake := newFakeAPI()
	fake.profiles["T0"] = &api.Profile{ID: "u1", Tier: tier.StudyPlus}

	s := New(fake, NewMemoryTokenStore("T0"))
	s.Start(context.Background())
	defer s.Close()
	waitReady(t, s)

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "T0", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, tier.StudyPlus, snap.User.Tier)
}

func TestBootstrapFailureLogsOut(t *testing.T) {
	fake := newFakeAPI()
	tokens := NewMemoryTokenStore("expired")

	s := New(fake, tokens)
	s.Start(context.Background())
	defer s.Close()
	waitReady(t, s)

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)

	persisted, _ := tokens.Load()
	assert.Empty(t, persisted, "failed bootstrap clears the persisted token")
}

func TestBootstrapNetworkFailureLogsOut(t *testing.T) {
	fake := newFakeAPI()
	fake.meErr["T0"] = errors.NewNetworkError("GET /auth/me", context.DeadlineExceeded)

	s := New(fake, NewMemoryTokenStore("T0"))
	s.Start(context.Background())
	defer s.Close()
	waitReady(t, s)

	assert.Empty(t, s.Snapshot().Token)
}

func TestLogin(t *testing.T) {
	fake := newFakeAPI()
	user := api.Profile{ID: "u1", Email: "a@b.com", Tier: tier.Free}
	fake.loginResp = &api.AuthResponse{Token: "T1", User: user}
	fake.profiles["T1"] = &user
	tokens := NewMemoryTokenStore("")

	s := New(fake, tokens)
	s.Start(context.Background())
	defer s.Close()

	got, err := s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, &user, got)

	snap := s.Snapshot()
	assert.Equal(t, "T1", snap.Token)
	assert.Equal(t, &user, snap.User)

	persisted, _ := tokens.Load()
	assert.Equal(t, "T1", persisted)
}

func TestLoginFailureKeepsPriorSession(t *testing.T) {
	fake := newFakeAPI()
	fake.profiles["T0"] = &api.Profile{ID: "u0"}
	fake.loginErr = errors.New(errors.ErrCodeAuthInvalidCredentials, "Invalid email or password")

	s := New(fake, NewMemoryTokenStore("T0"))
	s.Start(context.Background())
	defer s.Close()
	waitReady(t, s)

	_, err := s.Login(context.Background(), "a@b.com", "bad")
	require.Error(t, err)
	assert.Equal(t, errors.KindAuth, errors.KindOf(err))

	snap := s.Snapshot()
	assert.Equal(t, "T0", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, "u0", snap.User.ID)
}

func TestLoginValidation(t *testing.T) {
	s := New(newFakeAPI(), NewMemoryTokenStore(""))

	_, err := s.Login(context.Background(), "", "pw")
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	_, err = s.Register(context.Background(), "a@b.com", "pw", "  ")
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestLogoutIdempotent(t *testing.T) {
	fake := newFakeAPI()
	fake.profiles["T0"] = &api.Profile{ID: "u0"}
	tokens := NewMemoryTokenStore("T0")

	s := New(fake, tokens)
	s.Start(context.Background())
	defer s.Close()
	waitReady(t, s)

	for i := 0; i < 2; i++ {
		s.Logout()
		snap := s.Snapshot()
		assert.Empty(t, snap.Token)
		assert.Nil(t, snap.User)
		assert.False(t, snap.Loading)
	}
	persisted, _ := tokens.Load()
	assert.Empty(t, persisted)
}

func TestLogoutDuringBootstrapDiscardsFetch(t *testing.T) {
	fake := newFakeAPI()
	gate := make(chan struct{})
	fake.gates["T0"] = gate
	fake.profiles["T0"] = &api.Profile{ID: "u0"}

	s := New(fake, NewMemoryTokenStore("T0"))
	s.Start(context.Background())
	defer s.Close()

	s.Logout()
	close(gate)

	assert.Never(t, func() bool { return s.Snapshot().User != nil }, 100*time.Millisecond, 10*time.Millisecond)
	assert.False(t, s.Snapshot().Loading)
}

func TestStaleFetchDiscarded(t *testing.T) {
	fake := newFakeAPI()
	slow := make(chan struct{})
	fake.gates["T1"] = slow
	fake.profiles["T1"] = &api.Profile{ID: "first"}
	fake.profiles["T2"] = &api.Profile{ID: "second"}

	s := New(fake, NewMemoryTokenStore("T1"))
	s.Start(context.Background())
	defer s.Close()

	require.Eventually(t, func() bool { return fake.calls("T1") == 1 }, time.Second, 5*time.Millisecond)

	fake.loginResp = &api.AuthResponse{Token: "T2", User: api.Profile{ID: "second"}}
	_, err := s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	// The first fetch resolves after the token changed.
	close(slow)

	assert.Never(t, func() bool {
		u := s.Snapshot().User
		return u == nil || u.ID != "second"
	}, 150*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, "T2", s.Snapshot().Token)
}

func TestLateFetchIgnoringCancellationDiscarded(t *testing.T) {
	fake := newFakeAPI()
	fake.ignoreCtx = true
	slow := make(chan struct{})
	fake.gates["T1"] = slow
	fake.meErr["T1"] = errors.New(errors.ErrCodeAuthUnauthorized, "expired").WithStatus(http.StatusUnauthorized)
	fake.profiles["T2"] = &api.Profile{ID: "second"}

	s := New(fake, NewMemoryTokenStore("T1"))
	s.Start(context.Background())
	defer s.Close()
	var once sync.Once
	release := func() { once.Do(func() { close(slow) }) }
	defer release()

	require.Eventually(t, func() bool { return fake.calls("T1") == 1 }, time.Second, 5*time.Millisecond)

	fake.loginResp = &api.AuthResponse{Token: "T2", User: api.Profile{ID: "second"}}
	_, err := s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	// The old token's failure arrives after the new session was established.
	release()

	assert.Never(t, func() bool {
		snap := s.Snapshot()
		return snap.Token != "T2" || snap.User == nil || snap.User.ID != "second"
	}, 150*time.Millisecond, 10*time.Millisecond)
}

func TestRefreshDropsOlderGeneration(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fakeAPI)
	}{
		{"late success", func(f *fakeAPI) { f.profiles["T1"] = &api.Profile{ID: "first"} }},
		{"late failure", func(f *fakeAPI) { f.meErr["T1"] = errors.NewServerError(500, "boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeAPI()
			tt.setup(fake)
			fake.loginResp = &api.AuthResponse{Token: "T2", User: api.Profile{ID: "second"}}

			s := New(fake, NewMemoryTokenStore(""))
			_, err := s.Login(context.Background(), "a@b.com", "pw")
			require.NoError(t, err)

			// A fetch for the previous token that was never canceled.
			s.mu.Lock()
			stale := change{gen: s.gen - 1, token: "T1"}
			s.mu.Unlock()
			s.wg.Add(1)
			s.refresh(context.Background(), stale)

			snap := s.Snapshot()
			assert.Equal(t, 1, fake.calls("T1"))
			assert.Equal(t, "T2", snap.Token)
			require.NotNil(t, snap.User)
			assert.Equal(t, "second", snap.User.ID)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	fake := newFakeAPI()
	user := api.Profile{ID: "u1", Name: "Ada", Tier: tier.Free}
	fake.loginResp = &api.AuthResponse{Token: "T1", User: user}
	fake.profiles["T1"] = &user

	s := New(fake, NewMemoryTokenStore(""))

	_, err := s.UpdateProfile(ProfileUpdate{})
	var me *errors.MarkupError
	require.ErrorAs(t, err, &me, "no profile yields an auth error")
	assert.Equal(t, errors.ErrCodeAuthNotSignedIn, me.Code)

	_, err = s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	country, level := "UK", "GCSE"
	got, err := s.UpdateProfile(ProfileUpdate{Country: &country, EducationLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "UK", got.Country)
	assert.Equal(t, "GCSE", got.EducationLevel)
	assert.Equal(t, "Ada", got.Name, "unset fields are kept")

	got.Country = "mutated"
	assert.Equal(t, "UK", s.Snapshot().User.Country, "returned profile is a copy")
}

func TestUpgradeTier(t *testing.T) {
	fake := newFakeAPI()
	user := api.Profile{ID: "u1", Tier: tier.Free, Country: ""}
	fake.loginResp = &api.AuthResponse{Token: "T1", User: user}
	fake.profiles["T1"] = &user

	s := New(fake, NewMemoryTokenStore(""))

	_, err := s.UpgradeTier(context.Background(), tier.Pro)
	assert.Equal(t, errors.KindAuth, errors.KindOf(err))

	_, err = s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	_, err = s.UpgradeTier(context.Background(), "gold")
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	res, err := s.UpgradeTier(context.Background(), tier.Pro)
	require.NoError(t, err)
	assert.Equal(t, tier.Free, res.Previous)
	assert.Equal(t, tier.Pro, res.Tier)

	after := s.Snapshot().User
	want := user
	want.Tier = tier.Pro
	assert.Equal(t, &want, after, "only the tier changes")
}

func TestUpgradeTierFailureKeepsProfile(t *testing.T) {
	fake := newFakeAPI()
	user := api.Profile{ID: "u1", Tier: tier.Free}
	fake.loginResp = &api.AuthResponse{Token: "T1", User: user}
	fake.upgradeErr = errors.NewServerError(500, "boom")

	s := New(fake, NewMemoryTokenStore(""))
	_, err := s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	_, err = s.UpgradeTier(context.Background(), tier.Pro)
	assert.Equal(t, errors.KindServer, errors.KindOf(err))
	assert.Equal(t, tier.Free, s.Snapshot().User.Tier)
}

func TestUpgradeTierRejectsUnknownTier(t *testing.T) {
	for _, reply := range []tier.Tier{"enterprise", "PRO"} {
		t.Run(string(reply), func(t *testing.T) {
			fake := newFakeAPI()
			user := api.Profile{ID: "u1", Tier: tier.Free}
			fake.loginResp = &api.AuthResponse{Token: "T1", User: user}
			fake.upgradeResp = &api.UpgradeResponse{Tier: reply}

			s := New(fake, NewMemoryTokenStore(""))
			_, err := s.Login(context.Background(), "a@b.com", "pw")
			require.NoError(t, err)

			res, err := s.UpgradeTier(context.Background(), tier.Pro)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.Equal(t, errors.KindServer, errors.KindOf(err))
			assert.Equal(t, &user, s.Snapshot().User, "profile is unchanged")
		})
	}
}

func TestUpgradeResponseAfterLogoutDiscarded(t *testing.T) {
	fake := newFakeAPI()
	fake.loginResp = &api.AuthResponse{Token: "T1", User: api.Profile{ID: "u1", Tier: tier.Free}}

	s := New(fake, NewMemoryTokenStore(""))
	_, err := s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	fake.upgradeHook = s.Logout
	_, err = s.UpgradeTier(context.Background(), tier.Pro)
	assert.Equal(t, errors.KindAuth, errors.KindOf(err))
	assert.Nil(t, s.Snapshot().User)
}

func TestScenarioFreeUserUpgrades(t *testing.T) {
	fake := newFakeAPI()
	user := api.Profile{ID: "u1", Tier: tier.Free, Country: ""}
	fake.loginResp = &api.AuthResponse{Token: "T1", User: user}
	fake.profiles["T1"] = &user

	s := New(fake, NewMemoryTokenStore(""))
	_, err := s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	p := s.Snapshot().User
	assert.Empty(t, p.Country)
	assert.Equal(t, tier.Free, p.Tier)

	_, err = s.UpgradeTier(context.Background(), tier.Pro)
	require.NoError(t, err)
	p = s.Snapshot().User
	assert.Equal(t, tier.Pro, p.Tier)
	assert.Empty(t, p.Country)
}

func TestSubscribe(t *testing.T) {
	fake := newFakeAPI()
	fake.loginResp = &api.AuthResponse{Token: "T1", User: api.Profile{ID: "u1"}}

	s := New(fake, NewMemoryTokenStore(""))

	var mu sync.Mutex
	var seen []Session
	unsubscribe := s.Subscribe(func(snap Session) {
		mu.Lock()
		seen = append(seen, snap)
		mu.Unlock()
	})

	_, err := s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	s.Logout()

	unsubscribe()
	unsubscribe()
	_, err = s.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, "T1", seen[0].Token)
	assert.Empty(t, seen[1].Token)
}

func TestCloseReleasesWaiters(t *testing.T) {
	fake := newFakeAPI()
	gate := make(chan struct{})
	defer close(gate)
	fake.gates["T0"] = gate

	s := New(fake, NewMemoryTokenStore("T0"))
	s.Start(context.Background())

	done := make(chan struct{})
	go func() {
		_ = s.Wait(context.Background())
		close(done)
	}()

	s.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Close")
	}
}

func TestWaitHonoursContext(t *testing.T) {
	s := New(newFakeAPI(), NewMemoryTokenStore(""))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.Canceled)
}
