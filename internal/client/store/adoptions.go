package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/logging"
)

// AdoptionAPI is the part of client.Client the adoption store uses.
type AdoptionAPI interface {
	ApplyAdoption(ctx context.Context, petID string) (*models.Application, error)
	ListApplications(ctx context.Context) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error)
}

// Authenticator tells whether a session is present.
type Authenticator interface {
	IsAuthenticated() bool
}

const (
	MsgApplicationSubmitted = "Application submitted successfully"
	MsgStatusUpdated        = "Application status updated"

	reasonApplyLogin = "Please login to apply for adoption"
)

type AdoptionsState struct {
	// Mine holds the signed-in user's applications, All the admin view.
	Mine           []models.Application
	All            []models.Application
	SuccessMessage string
	Lifecycle
}

type AdoptionStore struct {
	mu  sync.Mutex
	req tracker

	mine    []models.Application
	all     []models.Application
	success string

	api  AdoptionAPI
	auth Authenticator
	nav  client.Navigator
	log  logging.Logger
}

func NewAdoptionStore(api AdoptionAPI, auth Authenticator, nav client.Navigator, log logging.Logger) *AdoptionStore {
	if log == nil {
		log = logging.Nop()
	}
	if nav == nil {
		nav = client.NavigatorFunc(func(context.Context, string) {})
	}
	return &AdoptionStore{
		req:  newTracker(),
		mine: []models.Application{},
		all:  []models.Application{},
		api:  api,
		auth: auth,
		nav:  nav,
		log:  log.With("store", "adoptions"),
	}
}

func (s *AdoptionStore) Snapshot() AdoptionsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AdoptionsState{
		Mine:           cloneApps(s.mine),
		All:            cloneApps(s.all),
		SuccessMessage: s.success,
		Lifecycle:      s.req.Lifecycle,
	}
}

// Apply submits an application for petID. Without a session the user is
// sent to login and nothing is requested.
func (s *AdoptionStore) Apply(ctx context.Context, petID string) (*models.Application, error) {
	if !s.auth.IsAuthenticated() {
		s.nav.ToLogin(ctx, reasonApplyLogin)
		return nil, common.ErrLoginRequired
	}

	ticket := s.begin()
	app, err := s.api.ApplyAdoption(ctx, petID)
	if err != nil {
		s.fail(ctx, ticket, err, "Failed to apply for adoption")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.req.current(ticket) {
		s.mine = upsertByID(s.mine, app.Clone(), appID)
		s.success = MsgApplicationSubmitted
		s.req.fulfil()
	}
	return app, nil
}

// FetchMine loads the signed-in user's applications.
func (s *AdoptionStore) FetchMine(ctx context.Context) ([]models.Application, error) {
	return s.fetch(ctx, "Failed to fetch applications", func(list []models.Application) { s.mine = list })
}

// FetchAll loads every application (admin view).
func (s *AdoptionStore) FetchAll(ctx context.Context) ([]models.Application, error) {
	return s.fetch(ctx, "Failed to fetch all applications", func(list []models.Application) { s.all = list })
}

func (s *AdoptionStore) fetch(ctx context.Context, fallback string, set func([]models.Application)) ([]models.Application, error) {
	ticket := s.begin()
	list, err := s.api.ListApplications(ctx)
	if err != nil {
		s.fail(ctx, ticket, err, fallback)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.req.current(ticket) {
		set(dedupeByID(cloneApps(list), appID))
		s.req.fulfil()
	}
	return list, nil
}

// UpdateStatus approves or rejects an application. Only PENDING
// applications may change; anything else is refused before any request.
func (s *AdoptionStore) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	if !status.IsDecision() {
		return nil, common.ErrInvalidTransition
	}
	if known, ok := s.lookup(id); ok && known.Status != models.StatusPending {
		return nil, common.ErrInvalidTransition
	}

	ticket := s.begin()
	app, err := s.api.UpdateApplicationStatus(ctx, id, status)
	if err != nil {
		s.fail(ctx, ticket, err, "Failed to update application status")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.req.current(ticket) {
		replaceByID(s.mine, app.Clone(), appID)
		replaceByID(s.all, app.Clone(), appID)
		s.success = MsgStatusUpdated
		s.req.fulfil()
	}
	s.log.Info(ctx, "application status updated", "id", id, "status", status)
	return app, nil
}

func (s *AdoptionStore) lookup(id string) (models.Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range [][]models.Application{s.all, s.mine} {
		for _, a := range list {
			if a.ID == id {
				return a, true
			}
		}
	}
	return models.Application{}, false
}

func (s *AdoptionStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req.Error = ""
}

func (s *AdoptionStore) ClearSuccessMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.success = ""
}

func (s *AdoptionStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.success = ""
	return s.req.begin()
}

func (s *AdoptionStore) fail(ctx context.Context, ticket uint64, err error, fallback string) {
	msg := client.MessageOf(err, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.req.current(ticket) {
		return
	}
	s.req.reject(msg)
	s.log.Warn(ctx, "request rejected", "error", err)
}
