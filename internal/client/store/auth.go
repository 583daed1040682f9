package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/events"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/logging"
)

// AuthAPI is the part of client.Client the auth store uses.
type AuthAPI interface {
	Login(ctx context.Context, form models.LoginForm) (*models.AuthResult, error)
	Register(ctx context.Context, form models.RegisterForm) (*models.AuthResult, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, form models.ProfileForm) (*models.User, error)
	ChangePassword(ctx context.Context, form models.PasswordForm) error
}

const (
	SourceLogin    = "login"
	SourceRegister = "register"
)

// LoginEvent is published after a session was established.
type LoginEvent struct {
	User   models.User
	Source string
}

type AuthState struct {
	User          *models.User
	Token         string
	Authenticated bool
	Lifecycle
}

type AuthStore struct {
	mu  sync.Mutex
	req tracker

	api     AuthAPI
	session *session.Session
	bus     *events.Bus[LoginEvent]
	log     logging.Logger
}

// NewAuthStore builds the store. bus may be nil when nobody listens for
// logins.
func NewAuthStore(api AuthAPI, sess *session.Session, bus *events.Bus[LoginEvent], log logging.Logger) *AuthStore {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthStore{
		req:     newTracker(),
		api:     api,
		session: sess,
		bus:     bus,
		log:     log.With("store", "auth"),
	}
}

func (s *AuthStore) Snapshot() AuthState {
	st := s.session.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	return AuthState{
		User:          st.User,
		Token:         st.Token,
		Authenticated: st.Authenticated,
		Lifecycle:     s.req.Lifecycle,
	}
}

func (s *AuthStore) Login(ctx context.Context, form models.LoginForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	ticket := s.begin()
	res, err := s.api.Login(ctx, form)
	return s.establish(ctx, ticket, res, err, "Login failed", SourceLogin)
}

func (s *AuthStore) Register(ctx context.Context, form models.RegisterForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	ticket := s.begin()
	res, err := s.api.Register(ctx, form)
	return s.establish(ctx, ticket, res, err, "Registration failed", SourceRegister)
}

// establish records a login or registration outcome. The session is only
// created when ticket is still the latest request, and the lock is held
// across the write so a concurrent Logout cannot interleave.
func (s *AuthStore) establish(ctx context.Context, ticket uint64, res *models.AuthResult, err error, fallback, source string) (*models.User, error) {
	if err != nil {
		s.fail(ctx, ticket, err, fallback)
		return nil, err
	}

	s.mu.Lock()
	if !s.req.current(ticket) {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding superseded auth result", "source", source)
		return nil, ErrSuperseded
	}
	if err := s.session.Establish(ctx, res.Token, res.User); err != nil {
		s.req.reject(client.MessageOf(err, fallback))
		s.mu.Unlock()
		s.log.Error(ctx, "failed to persist session", "error", err)
		return nil, err
	}
	s.req.fulfil()
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user", res.User.Email, "source", source)
	if s.bus != nil {
		s.bus.Publish(ctx, LoginEvent{User: res.User, Source: source})
	}

	u := res.User
	return &u, nil
}

// FetchProfile reloads the signed-in user from the backend.
func (s *AuthStore) FetchProfile(ctx context.Context) (*models.User, error) {
	ticket := s.begin()
	u, err := s.api.Profile(ctx)
	return s.applyUser(ctx, ticket, u, err, "Failed to fetch profile")
}

func (s *AuthStore) UpdateProfile(ctx context.Context, form models.ProfileForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	ticket := s.begin()
	u, err := s.api.UpdateProfile(ctx, form)
	return s.applyUser(ctx, ticket, u, err, "Failed to update profile")
}

func (s *AuthStore) applyUser(ctx context.Context, ticket uint64, u *models.User, err error, fallback string) (*models.User, error) {
	if err != nil {
		s.fail(ctx, ticket, err, fallback)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.req.current(ticket) {
		return u, nil
	}
	if err := s.session.SetUser(ctx, *u); err != nil {
		s.log.Warn(ctx, "failed to persist user", "error", err)
	}
	s.req.fulfil()
	return u, nil
}

func (s *AuthStore) ChangePassword(ctx context.Context, form models.PasswordForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	ticket := s.begin()
	if err := s.api.ChangePassword(ctx, form); err != nil {
		s.fail(ctx, ticket, err, "Failed to update password")
		return err
	}
	s.settle(ticket)
	return nil
}

// Logout ends the session locally. It never calls the backend and any
// auth request still in flight is abandoned.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.req.reset()
	s.mu.Unlock()

	err := s.session.Clear(ctx)
	s.log.Info(ctx, "signed out")
	return err
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req.Error = ""
}

func (s *AuthStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req.begin()
}

func (s *AuthStore) settle(ticket uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.req.current(ticket) {
		s.req.fulfil()
	}
}

func (s *AuthStore) fail(ctx context.Context, ticket uint64, err error, fallback string) {
	msg := client.MessageOf(err, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.req.current(ticket) {
		return
	}
	s.req.reject(msg)
	s.log.Warn(ctx, "request rejected", "error", err)
}
