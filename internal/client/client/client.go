package client

import (
	"context"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
)

// Client is the typed contract of the backend API.
type Client interface {
	Login(ctx context.Context, form models.LoginForm) (*models.AuthResult, error)
	Register(ctx context.Context, form models.RegisterForm) (*models.AuthResult, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, form models.ProfileForm) (*models.User, error)
	ChangePassword(ctx context.Context, form models.PasswordForm) error
	UpdatePushToken(ctx context.Context, token string) error

	ListPets(ctx context.Context, q models.PetQuery) (*models.PetPage, error)
	GetPet(ctx context.Context, id string) (*models.Pet, error)
	CreatePet(ctx context.Context, pet models.Pet) (*models.Pet, error)
	UpdatePet(ctx context.Context, id string, pet models.Pet) (*models.Pet, error)
	DeletePet(ctx context.Context, id string) error

	ApplyAdoption(ctx context.Context, petID string) (*models.Application, error)
	ListApplications(ctx context.Context) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error)
}
