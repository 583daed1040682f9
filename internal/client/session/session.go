package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// State is a point-in-time copy of the session.
type State struct {
	User          *models.User
	Token         string
	Authenticated bool
}

type Session struct {
	// wmu orders writers so storage and memory change together.
	wmu     sync.Mutex
	mu      sync.RWMutex
	token   string
	user    *models.User
	storage Storage
	log     logging.Logger
	now     func() time.Time
}

func New(storage Storage, log logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	return &Session{storage: storage, log: log.With("component", "session"), now: time.Now}
}

// Hydrate restores the session from storage. A stored JWT whose exp has
// passed is discarded together with the stored user; tokens that are not
// JWTs are kept as they are.
func (s *Session) Hydrate(ctx context.Context) error {
	token, user, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if token == "" || user == nil {
		if token != "" || user != nil {
			s.log.Warn(ctx, "discarding incomplete stored session")
			return s.storage.Clear(ctx)
		}
		return nil
	}

	if Expired(token, s.now()) {
		s.log.Info(ctx, "stored session expired", "user", user.Email)
		return s.storage.Clear(ctx)
	}

	s.mu.Lock()
	s.token, s.user = token, user
	s.mu.Unlock()

	s.log.Debug(ctx, "session restored", "user", user.Email)
	return nil
}

// Establish persists token and user, then makes them current.
func (s *Session) Establish(ctx context.Context, token string, user models.User) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.storage.Save(ctx, token, user); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.token, s.user = token, &user
	s.mu.Unlock()
	return nil
}

// SetUser replaces the signed-in user. It does nothing without a session.
func (s *Session) SetUser(ctx context.Context, user models.User) error {
	if !s.IsAuthenticated() {
		return nil
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	s.mu.Lock()
	if s.token != "" {
		s.user = &user
	}
	s.mu.Unlock()
	return nil
}

// Clear forgets the session in memory, then in storage. Memory is cleared
// even when storage fails.
func (s *Session) Clear(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.clear(ctx)
}

func (s *Session) clear(ctx context.Context) error {
	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// InvalidateToken clears the session only while token is current. An empty
// token matches a guest session, which has nothing to clear.
func (s *Session) InvalidateToken(ctx context.Context, token string) bool {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.Token() != token {
		return false
	}
	if token == "" {
		return true
	}
	if err := s.clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear stored session", "error", err)
	}
	return true
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{Token: s.token, Authenticated: s.token != "" && s.user != nil}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Expired reports whether token is a JWT whose exp is not after now. The
// signature is not checked; the backend does that.
func Expired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}
