// Package session owns the bearer token and the signed-in user's profile.
//
// A Store is the single writer of session state. Every token change bumps a
// generation counter and is handed to one refresh task that re-fetches the
// profile; results belonging to an older generation are dropped.
package session

import (
	"context"
	"strconv"
	"sync"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/log"
	"github.com/felixgeelhaar/markup/internal/tier"
	"github.com/felixgeelhaar/markup/internal/validate"
)

// AuthAPI is the subset of the backend client the store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, email, password, name string) (*api.AuthResponse, error)
	Me(ctx context.Context, token string) (*api.Profile, error)
	Upgrade(ctx context.Context, token string, t tier.Tier) (*api.UpgradeResponse, error)
}

// Session is a point-in-time copy of the store's state.
type Session struct {
	Token   string
	User    *api.Profile
	Loading bool
}

// Authenticated reports whether a profile has been loaded.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// ProfileUpdate holds the fields UpdateProfile merges. Nil fields are left alone.
type ProfileUpdate struct {
	Name           *string
	Country        *string
	EducationLevel *string
	ExamBoard      *string
	Language       *string
}

// UpgradeResult reports the outcome of a tier change.
type UpgradeResult struct {
	Previous tier.Tier `json:"previous" yaml:"previous"`
	Tier     tier.Tier `json:"tier" yaml:"tier"`
	Message  string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

type change struct {
	gen   uint64
	token string
}

// Store is the session state owner. Construct it with New, call Start once,
// and Close when done.
type Store struct {
	api    AuthAPI
	tokens TokenStore
	logger *log.Logger

	mu      sync.Mutex
	token   string
	user    *api.Profile
	loading bool
	gen     uint64
	started bool
	closed  bool

	ready     chan struct{}
	readyOnce sync.Once

	subsMu  sync.Mutex
	subs    map[int]func(Session)
	nextSub int

	changes chan change
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Store. It starts in the Loading state until Start resolves it.
func New(client AuthAPI, tokens TokenStore, opts ...Option) *Store {
	s := &Store{
		api:     client,
		tokens:  tokens,
		logger:  log.Nop(),
		loading: true,
		ready:   make(chan struct{}),
		subs:    make(map[int]func(Session)),
		changes: make(chan change, 1),
		cancel:  func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start seeds the token from the token store and, when one exists, fetches
// the profile in the background. Loading turns false once that fetch settles,
// or immediately when there is no token. Calling Start again is a no-op.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.run(runCtx)

	token, err := s.tokens.Load()
	if err != nil {
		s.logger.WithError(err).Warn("could not read persisted token, starting signed out")
		token = ""
	}

	if token == "" {
		s.markReadyLocked()
	} else {
		s.logger.Debug("restoring session", "fingerprint", Fingerprint(token))
		s.setTokenLocked(token)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Close stops the refresh task and waits for in-flight fetches.
// Waiters blocked in Wait are released.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.markReadyLocked()
	s.mu.Unlock()
}

// Ready returns a channel closed once Loading has become false.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the bootstrap has settled or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called after every state change.
// Calls happen outside the store lock and may come from any goroutine.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// Login authenticates and replaces the session. On failure the previous
// session is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (*api.Profile, error) {
	if err := validate.Struct(api.LoginRequest{Email: email, Password: password}); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(resp, "login")
}

// Register creates an account and signs in to it.
func (s *Store) Register(ctx context.Context, email, password, name string) (*api.Profile, error) {
	if err := validate.Struct(api.RegisterRequest{Email: email, Password: password, Name: name}); err != nil {
		return nil, err
	}

	resp, err := s.api.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return s.establish(resp, "register")
}

func (s *Store) establish(resp *api.AuthResponse, op string) (*api.Profile, error) {
	if resp.Token == "" {
		return nil, errors.New(errors.ErrCodeServerDecode, op+" response did not include a token")
	}

	s.mu.Lock()
	if err := s.tokens.Save(resp.Token); err != nil {
		s.logger.WithError(err).Warn("could not persist token, session will not survive restart")
	}
	s.setTokenLocked(resp.Token)
	user := resp.User
	s.user = &user
	s.markReadyLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("signed in", "op", op, "fingerprint", Fingerprint(resp.Token), "tier", user.Tier)
	s.notify(snap)
	return user.Clone(), nil
}

// Logout clears the persisted token and the session. It never fails and is idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	s.logoutLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) logoutLocked() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.WithError(err).Warn("could not clear persisted token")
	}
	if s.token != "" {
		s.logger.Info("signed out", "fingerprint", Fingerprint(s.token))
	}
	s.setTokenLocked("")
	s.user = nil
	s.markReadyLocked()
}

// UpdateProfile merges non-nil fields into the local profile without a
// server round trip.
func (s *Store) UpdateProfile(update ProfileUpdate) (*api.Profile, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil, errors.NewNotSignedInError()
	}

	merged := *s.user
	apply(&merged.Name, update.Name)
	apply(&merged.Country, update.Country)
	apply(&merged.EducationLevel, update.EducationLevel)
	apply(&merged.ExamBoard, update.ExamBoard)
	apply(&merged.Language, update.Language)
	s.user = &merged
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return merged.Clone(), nil
}

func apply(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// UpgradeTier asks the backend to move the account to t and, on success,
// updates only the tier of the local profile.
func (s *Store) UpgradeTier(ctx context.Context, t tier.Tier) (*UpgradeResult, error) {
	if err := validate.Struct(api.UpgradeRequest{Tier: t}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	token, gen, user := s.token, s.gen, s.user
	s.mu.Unlock()

	if token == "" || user == nil {
		return nil, errors.NewNotSignedInError()
	}

	resp, err := s.api.Upgrade(ctx, token, t)
	if err != nil {
		return nil, err
	}
	if !resp.Tier.Valid() {
		return nil, errors.New(errors.ErrCodeServerDecode,
			"upgrade response carried an unknown tier "+strconv.Quote(string(resp.Tier)))
	}

	s.mu.Lock()
	if s.gen != gen || s.user == nil {
		s.mu.Unlock()
		s.logger.Debug("discarding upgrade response for superseded session")
		return nil, errors.New(errors.ErrCodeAuthUnauthorized, "session changed before the upgrade completed").
			WithSuggestion("Check 'markup auth status' and retry")
	}
	previous := s.user.Tier
	updated := *s.user
	updated.Tier = resp.Tier
	s.user = &updated
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("tier changed", "from", previous, "to", resp.Tier)
	s.notify(snap)
	return &UpgradeResult{Previous: previous, Tier: resp.Tier, Message: resp.Message}, nil
}

// setTokenLocked records a token change and hands it to the refresh task.
func (s *Store) setTokenLocked(token string) {
	s.token = token
	s.gen++
	if !s.started || s.closed {
		return
	}

	c := change{gen: s.gen, token: token}
	select {
	case s.changes <- c:
	default:
		// Replace the pending change; only the newest token matters.
		select {
		case <-s.changes:
		default:
		}
		s.changes <- c
	}
}

func (s *Store) markReadyLocked() {
	if !s.loading {
		return
	}
	s.loading = false
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *Store) snapshotLocked() Session {
	return Session{
		Token:   s.token,
		User:    s.user.Clone(),
		Loading: s.loading,
	}
}

func (s *Store) notify(snap Session) {
	s.subsMu.Lock()
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
