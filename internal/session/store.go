// Package session tracks who is signed in. It owns the current Identity,
// keeps it in step with the credential token, and tells subscribers about
// every change.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/internal/logging"
	"github.com/smartshop/shopctl/internal/metrics"
)

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrForbidden        = errors.New("insufficient role for this action")
)

// AuthAPI is the subset of the remote API the session depends on.
type AuthAPI interface {
	Login(ctx context.Context, in client.LoginRequest) (*client.AuthResponse, error)
	Register(ctx context.Context, in client.RegisterRequest) (*client.AuthResponse, error)
	Profile(ctx context.Context) (*client.User, error)
	Logout(ctx context.Context) error
}

type clientAPI struct {
	users *client.UsersService
	auth  *client.AuthService
}

// NewAPI adapts c to AuthAPI.
func NewAPI(c *client.Client) AuthAPI {
	return &clientAPI{users: c.Users, auth: c.Auth}
}

func (a *clientAPI) Login(ctx context.Context, in client.LoginRequest) (*client.AuthResponse, error) {
	return a.users.Login(ctx, in)
}

func (a *clientAPI) Register(ctx context.Context, in client.RegisterRequest) (*client.AuthResponse, error) {
	return a.users.Register(ctx, in)
}

func (a *clientAPI) Profile(ctx context.Context) (*client.User, error) {
	return a.users.Profile(ctx)
}

func (a *clientAPI) Logout(ctx context.Context) error {
	return a.auth.Logout(ctx)
}

// State is a consistent view of the session.
type State struct {
	Authenticated bool
	Identity      *Identity
	HasToken      bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for session transitions.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithServerLogout makes Logout notify the server before clearing local
// state. The call is best effort.
func WithServerLogout(enabled bool) Option {
	return func(s *Store) {
		s.serverLogout = enabled
	}
}

// Store is the session state machine. The zero value is not usable; use New.
//
// Subscribers are called synchronously, in mutation order, and must not
// call Login, Register, Logout or Subscribe themselves.
type Store struct {
	api          AuthAPI
	creds        *client.Credentials
	logger       *logging.Logger
	serverLogout bool

	// writeMu serializes mutations together with their notifications.
	writeMu sync.Mutex

	mu       sync.RWMutex
	identity *Identity

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int

	restoreOnce sync.Once
	ready       chan struct{}
}

// New returns a Store that authenticates through api and keeps the token in
// creds. creds should be the same holder the API client reads from.
func New(api AuthAPI, creds *client.Credentials, opts ...Option) *Store {
	if creds == nil {
		creds = client.NewCredentials(nil)
	}
	s := &Store{
		api:    api,
		creds:  creds,
		logger: logging.Discard(),
		subs:   make(map[int]func(State)),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates and adopts the returned token and identity. On any
// failure the current session is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*Identity, error) {
	resp, err := s.api.Login(ctx, client.LoginRequest{Email: email, Password: password})
	if err != nil {
		metrics.SessionEvent("login_failed")
		return nil, err
	}
	return s.adopt(ctx, "login", "users.login", resp)
}

// Register creates an account and signs into it. Where to send the user
// next is up to the caller; see Role.Dashboard.
func (s *Store) Register(ctx context.Context, firstName, lastName, email, password string) (*Identity, error) {
	resp, err := s.api.Register(ctx, client.RegisterRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		metrics.SessionEvent("register_failed")
		return nil, err
	}
	return s.adopt(ctx, "register", "users.register", resp)
}

func (s *Store) adopt(ctx context.Context, event, op string, resp *client.AuthResponse) (*Identity, error) {
	if resp == nil || resp.Token == "" {
		metrics.SessionEvent(event + "_failed")
		return nil, &client.Error{
			Kind:      client.KindTransport,
			Operation: op,
			Message:   client.MessageMalformedResponse,
			Err:       errors.New("response carried no token"),
		}
	}

	id := identityFromAuth(resp)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if err := s.creds.Set(ctx, resp.Token); err != nil {
		s.mu.Unlock()
		metrics.SessionEvent(event + "_failed")
		return nil, err
	}
	s.identity = id
	state := s.stateLocked(ctx)
	s.mu.Unlock()

	metrics.SessionEvent(event)
	s.logger.InfoContext(ctx, "session started",
		logging.Operation(event),
		logging.UserID(id.ID),
		logging.Role(string(id.Role)),
		logging.Backend(s.creds.Backend()),
	)
	s.notify(state)

	out := *id
	return &out, nil
}

// Logout ends the session. It always succeeds locally.
func (s *Store) Logout(ctx context.Context) {
	if s.serverLogout && s.creds.Has(ctx) {
		if err := s.api.Logout(ctx); err != nil {
			s.logger.DebugContext(ctx, "server logout failed", logging.Error(err))
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state := s.clear(ctx)
	metrics.SessionEvent("logout")
	s.logger.InfoContext(ctx, "session ended", logging.Operation("logout"))
	s.notify(state)
}

// Restore resumes a persisted session. It runs once; later calls return
// immediately. With no persisted token nothing is sent to the server. If
// the profile cannot be fetched the token is discarded.
func (s *Store) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		defer close(s.ready)
		s.restore(ctx)
	})
}

func (s *Store) restore(ctx context.Context) {
	token := s.creds.Token(ctx)
	if token == "" {
		metrics.SessionEvent("restore_skipped")
		return
	}

	if claims, err := ParseClaims(token); err == nil {
		s.logger.DebugContext(ctx, "restoring session",
			"subject", claims.Subject,
			"expires_at", claims.ExpiresAt,
		)
	}

	user, err := s.api.Profile(ctx)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err != nil {
		state := s.clear(ctx)
		metrics.SessionEvent("restore_failed")
		s.logger.InfoContext(ctx, "persisted session rejected, logged out",
			logging.Operation("restore"),
			logging.Error(err),
		)
		s.notify(state)
		return
	}

	id := identityFromUser(user)
	s.mu.Lock()
	s.identity = id
	state := s.stateLocked(ctx)
	s.mu.Unlock()

	metrics.SessionEvent("restore")
	s.logger.InfoContext(ctx, "session restored",
		logging.UserID(id.ID),
		logging.Role(string(id.Role)),
	)
	s.notify(state)
}

// clear drops token and identity. Callers hold writeMu.
func (s *Store) clear(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.creds.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to clear persisted token", logging.Error(err))
	}
	s.identity = nil
	return s.stateLocked(ctx)
}

// Ready is closed once Restore has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Known reports whether Restore has finished, so the session state can be
// trusted.
func (s *Store) Known() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Current returns a copy of the signed-in identity.
func (s *Store) Current() (*Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return nil, false
	}
	out := *s.identity
	return &out, true
}

// Snapshot returns identity and token presence as one consistent view.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked(context.Background())
}

func (s *Store) stateLocked(ctx context.Context) State {
	st := State{HasToken: s.creds.Has(ctx)}
	if s.identity != nil {
		id := *s.identity
		st.Identity = &id
		st.Authenticated = true
	}
	return st
}

// Subscribe registers fn for every future change and immediately calls it
// with the current state. The returned func unregisters fn.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.subMu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = fn
	s.subMu.Unlock()

	fn(s.Snapshot())

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, key)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(state State) {
	s.subMu.Lock()
	keys := make([]int, 0, len(s.subs))
	for k := range s.subs {
		keys = append(keys, k)
	}
	s.subMu.Unlock()

	slices.Sort(keys)
	for _, k := range keys {
		s.subMu.Lock()
		fn, ok := s.subs[k]
		s.subMu.Unlock()
		if ok {
			fn(state)
		}
	}
}

// RequireRole checks the signed-in identity against roles. With no roles
// it only requires a signed-in user.
func (s *Store) RequireRole(roles ...Role) error {
	id, ok := s.Current()
	if !ok {
		return ErrNotAuthenticated
	}
	if len(roles) == 0 || id.HasRole(roles...) {
		return nil
	}
	return ErrForbidden
}
