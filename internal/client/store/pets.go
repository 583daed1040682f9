package store

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/pets"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/logging"
)

// PetAPI is the part of client.Client the pet store uses.
type PetAPI interface {
	ListPets(ctx context.Context, q models.PetQuery) (*models.PetPage, error)
	GetPet(ctx context.Context, id string) (*models.Pet, error)
	CreatePet(ctx context.Context, pet models.Pet) (*models.Pet, error)
	UpdatePet(ctx context.Context, id string, pet models.Pet) (*models.Pet, error)
	DeletePet(ctx context.Context, id string) error
}

// ImageUploader stores a local photo and returns the URL to reference it by.
type ImageUploader interface {
	Upload(ctx context.Context, path string) (string, error)
	// Remove deletes an uploaded photo by the URL Upload returned.
	Remove(ctx context.Context, url string) error
}

type PetsState struct {
	Pets       []models.Pet
	Current    *models.Pet
	Pagination models.Pagination
	Query      models.PetQuery
	// FromCache is set while Pets comes from the offline cache.
	FromCache bool
	Lifecycle
}

type PetStore struct {
	mu  sync.Mutex
	req tracker

	pets       []models.Pet
	current    *models.Pet
	pagination models.Pagination
	query      models.PetQuery
	fromCache  bool

	api      PetAPI
	cache    pets.Repository
	uploader ImageUploader
	log      logging.Logger
}

type PetStoreOption func(*PetStore)

// WithCache keeps the last fetched page in repo for offline use.
func WithCache(repo pets.Repository) PetStoreOption {
	return func(s *PetStore) { s.cache = repo }
}

// WithUploader enables PetForm.ImagePath.
func WithUploader(u ImageUploader) PetStoreOption {
	return func(s *PetStore) { s.uploader = u }
}

func WithPetLogger(log logging.Logger) PetStoreOption {
	return func(s *PetStore) { s.log = log }
}

func NewPetStore(api PetAPI, opts ...PetStoreOption) *PetStore {
	s := &PetStore{req: newTracker(), api: api, pets: []models.Pet{}, log: logging.Nop()}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("store", "pets")
	return s
}

func (s *PetStore) Snapshot() PetsState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := PetsState{
		Pets:       clonePets(s.pets),
		Pagination: s.pagination,
		Query:      s.query,
		FromCache:  s.fromCache,
		Lifecycle:  s.req.Lifecycle,
	}
	if s.current != nil {
		c := s.current.Clone()
		st.Current = &c
	}
	return st
}

// Fetch loads one catalogue page and replaces the list with it.
func (s *PetStore) Fetch(ctx context.Context, q models.PetQuery) (*models.PetPage, error) {
	q = q.Normalized()
	ticket := s.begin()

	page, err := s.api.ListPets(ctx, q)
	if err != nil {
		s.fail(ctx, ticket, err, "Failed to fetch pets")
		return nil, err
	}

	s.mu.Lock()
	applied := s.req.current(ticket)
	if applied {
		s.pets = dedupeByID(clonePets(page.Pets), petID)
		s.pagination = page.Pagination
		s.query = q
		s.fromCache = false
		s.req.fulfil()
	}
	s.mu.Unlock()

	if applied {
		s.saveCache(ctx, page.Pets)
	}
	return page, nil
}

func (s *PetStore) saveCache(ctx context.Context, list []models.Pet) {
	if s.cache == nil {
		return
	}
	if err := s.cache.ReplaceAll(ctx, list); err != nil {
		s.log.Warn(ctx, "failed to update offline cache", "error", err)
	}
}

// LoadCached replaces the list with the offline copy of the last page.
func (s *PetStore) LoadCached(ctx context.Context) ([]models.Pet, error) {
	ticket := s.begin()

	var list []models.Pet
	err := client.ErrLocalDataNotAvailable
	if s.cache != nil {
		list, err = s.cache.List(ctx)
		if err == nil && len(list) == 0 {
			err = client.ErrLocalDataNotAvailable
		}
	}
	if err != nil {
		s.fail(ctx, ticket, err, "No cached pets available")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.req.current(ticket) {
		s.pets = clonePets(list)
		s.pagination = models.Pagination{CurrentPage: 1, TotalPages: 1, TotalPets: len(list)}
		s.fromCache = true
		s.req.fulfil()
	}
	return list, nil
}

// FetchOne loads a single pet into Current. A missing pet leaves Current
// empty.
func (s *PetStore) FetchOne(ctx context.Context, id string) (*models.Pet, error) {
	ticket := s.begin()

	pet, err := s.api.GetPet(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.mu.Lock()
			if s.req.current(ticket) {
				s.current = nil
			}
			s.mu.Unlock()
		}
		s.fail(ctx, ticket, err, "Failed to fetch pet details")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.req.current(ticket) {
		c := pet.Clone()
		s.current = &c
		replaceByID(s.pets, pet.Clone(), petID)
		s.req.fulfil()
	}
	return pet, nil
}

func (s *PetStore) Create(ctx context.Context, form models.PetForm) (*models.Pet, error) {
	pet, err := s.validate(form)
	if err != nil {
		return nil, err
	}
	ticket := s.begin()

	if pet, err = s.withImage(ctx, form, pet); err == nil {
		var created *models.Pet
		if created, err = s.api.CreatePet(ctx, pet); err == nil {
			s.mu.Lock()
			if s.req.current(ticket) {
				s.pets = upsertByID(s.pets, created.Clone(), petID)
				s.req.fulfil()
			}
			s.mu.Unlock()
			s.log.Info(ctx, "pet added", "id", created.ID)
			return created, nil
		}
		s.discardImage(ctx, form, pet.Image)
	}

	s.fail(ctx, ticket, err, "Failed to add pet")
	return nil, err
}

func (s *PetStore) Update(ctx context.Context, id string, form models.PetForm) (*models.Pet, error) {
	pet, err := s.validate(form)
	if err != nil {
		return nil, err
	}
	ticket := s.begin()

	if pet, err = s.withImage(ctx, form, pet); err == nil {
		var updated *models.Pet
		if updated, err = s.api.UpdatePet(ctx, id, pet); err == nil {
			s.mu.Lock()
			if s.req.current(ticket) {
				replaceByID(s.pets, updated.Clone(), petID)
				if s.current != nil && s.current.ID == updated.ID {
					c := updated.Clone()
					s.current = &c
				}
				s.req.fulfil()
			}
			s.mu.Unlock()
			return updated, nil
		}
		s.discardImage(ctx, form, pet.Image)
	}

	s.fail(ctx, ticket, err, "Failed to update pet")
	return nil, err
}

func (s *PetStore) Delete(ctx context.Context, id string) error {
	ticket := s.begin()

	if err := s.api.DeletePet(ctx, id); err != nil {
		s.fail(ctx, ticket, err, "Failed to delete pet")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.req.current(ticket) {
		s.pets = removeByID(s.pets, id, petID)
		if s.current != nil && s.current.ID == id {
			s.current = nil
		}
		s.req.fulfil()
	}
	return nil
}

// validate converts form, refusing a photo when no uploader is configured.
func (s *PetStore) validate(form models.PetForm) (models.Pet, error) {
	pet, err := form.ToPet()
	if err != nil {
		return pet, err
	}
	if form.ImagePath != "" && s.uploader == nil {
		return pet, models.ValidationErrors{"image": "Image uploads are not configured"}
	}
	return pet, nil
}

func (s *PetStore) withImage(ctx context.Context, form models.PetForm, pet models.Pet) (models.Pet, error) {
	if form.ImagePath == "" {
		return pet, nil
	}
	url, err := s.uploader.Upload(ctx, form.ImagePath)
	if err != nil {
		return pet, err
	}
	pet.Image = url
	return pet, nil
}

// discardImage removes a photo uploaded for a save that then failed.
func (s *PetStore) discardImage(ctx context.Context, form models.PetForm, url string) {
	if form.ImagePath == "" || url == "" {
		return
	}
	if err := s.uploader.Remove(context.WithoutCancel(ctx), url); err != nil {
		s.log.Warn(ctx, "orphaned pet image", "url", url, "error", err)
	}
}

func (s *PetStore) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *PetStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req.Error = ""
}

func (s *PetStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req.begin()
}

func (s *PetStore) fail(ctx context.Context, ticket uint64, err error, fallback string) {
	msg := client.MessageOf(err, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.req.current(ticket) {
		return
	}
	s.req.reject(msg)
	s.log.Warn(ctx, "request rejected", "error", err)
}
