package fakeapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	user     models.User
	hash     []byte
	fcmToken string
}

// Request is one call observed by the server.
type Request struct {
	Method        string
	Path          string
	Query         string
	RequestID     string
	Authorization string
}

type fault struct {
	status  int
	message string
}

// Server holds the in-memory state of the fake backend.
type Server struct {
	mu sync.Mutex

	secret   []byte
	tokenTTL time.Duration
	epoch    int
	now      func() time.Time

	accounts map[string]*account
	byEmail  map[string]string
	pets     []models.Pet
	apps     []models.Application

	requests []Request
	faults   map[string]fault
	gates    map[string]chan struct{}
}

func New() *Server {
	return &Server{
		secret:   []byte(uuid.NewString()),
		tokenTTL: time.Hour,
		now:      time.Now,
		accounts: map[string]*account{},
		byEmail:  map[string]string{},
		faults:   map[string]fault{},
		gates:    map[string]chan struct{}{},
	}
}

// Handler returns the API mounted under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.record)
	r.Use(s.authContext)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.injectFaults)

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", s.login)
			ar.Post("/register", s.register)
			ar.With(s.requireAuth).Get("/profile", s.profile)
			ar.With(s.requireAuth).Put("/profile", s.updateProfile)
			ar.With(s.requireAuth).Put("/password", s.changePassword)
			ar.With(s.requireAuth).Put("/fcm-token", s.updateFCMToken)
			ar.With(s.requireAdmin).Get("/users", s.listUsers)
		})

		api.Route("/pets", func(pr chi.Router) {
			pr.Get("/", s.listPets(false))
			pr.With(s.requireAdmin).Get("/admin", s.listPets(true))
			pr.Get("/{petID}", s.getPet)
			pr.With(s.requireAdmin).Post("/create", s.createPet)
			pr.With(s.requireAdmin).Put("/update/{petID}", s.updatePet)
			pr.With(s.requireAdmin).Delete("/delete/{petID}", s.deletePet)
		})

		api.Route("/adoptions", func(ad chi.Router) {
			ad.Use(s.requireAuth)
			ad.Post("/create", s.applyAdoption)
			ad.Get("/", s.listApplications)
			ad.With(s.requireAdmin).Put("/update/{appID}", s.updateApplication)
		})
	})
	return r
}

// AddUser registers an account directly.
func (s *Server) AddUser(name, email, password, phone string, role models.Role) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := models.User{ID: uuid.NewString(), Name: name, Email: strings.ToLower(email), Phone: phone, Role: role}
	s.accounts[u.ID] = &account{user: u, hash: hash}
	s.byEmail[u.Email] = u.ID
	return u
}

// AddPet stores p with a fresh id and returns it.
func (s *Server) AddPet(p models.Pet) models.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	if p.Traits == nil {
		p.Traits = []string{}
	}
	s.pets = append(s.pets, p)
	return p
}

// AddApplication stores an application of userID for petID in the given
// status.
func (s *Server) AddApplication(userID, petID string, status models.ApplicationStatus) models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := models.Application{
		ID:        uuid.NewString(),
		Pet:       models.Ref{ID: petID},
		Applicant: models.Ref{ID: userID},
		Status:    status,
		CreatedAt: s.now().UTC(),
		UpdatedAt: s.now().UTC(),
	}
	s.apps = append(s.apps, a)
	return s.populate(a)
}

// Token mints a valid token for userID.
func (s *Server) Token(userID string) string {
	return s.tokenWithTTL(userID, s.tokenTTL)
}

// ExpiredToken mints a token that expired a minute ago.
func (s *Server) ExpiredToken(userID string) string {
	return s.tokenWithTTL(userID, -time.Minute)
}

func (s *Server) tokenWithTTL(userID string, ttl time.Duration) string {
	s.mu.Lock()
	acc := s.accounts[userID]
	epoch := s.epoch
	s.mu.Unlock()

	role := models.RoleUser
	if acc != nil {
		role = acc.user.Role
	}
	tok, err := GenerateToken(userID, role, epoch, s.secret, ttl)
	if err != nil {
		panic(err)
	}
	return tok
}

// RevokeTokens makes every token issued so far fail with 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

// FailNext makes the next request to "METHOD /api/path" fail with status
// and message.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault{status: status, message: message}
}

// Hold blocks requests to "METHOD /api/path" until the returned function
// is called.
func (s *Server) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[method+" "+path] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, method+" "+path)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests hit "METHOD /api/path".
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// PushToken returns the device token last registered by userID.
func (s *Server) PushToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc := s.accounts[userID]; acc != nil {
		return acc.fcmToken
	}
	return ""
}

// Pets returns a copy of the stored pets.
func (s *Server) Pets() []models.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Pet, len(s.pets))
	for i, p := range s.pets {
		out[i] = p.Clone()
	}
	return out
}

type ctxKey string

const claimsKey ctxKey = "claims"

func claimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}
