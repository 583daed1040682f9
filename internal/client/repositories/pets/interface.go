package pets

import (
	"context"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
)

// Repository persists the offline catalogue.
type Repository interface {
	// ReplaceAll drops every cached pet and stores list in its place.
	ReplaceAll(ctx context.Context, list []models.Pet) error

	// List returns cached pets in stored order. An empty cache yields an
	// empty slice and no error.
	List(ctx context.Context) ([]models.Pet, error)

	// GetByID returns common.ErrNotFound when id is not cached.
	GetByID(ctx context.Context, id string) (*models.Pet, error)
}
