package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
)

// envelope is the common reply shape {"success", "message", "data"}.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// userReply covers profile endpoints, which answer with either
// {"user": ...} or {"data": ...}.
type userReply struct {
	User *models.User `json:"user"`
	Data *models.User `json:"data"`
}

func (r userReply) get() (*models.User, error) {
	switch {
	case r.User != nil:
		return r.User, nil
	case r.Data != nil:
		return r.Data, nil
	default:
		return nil, errors.New("response carries no user")
	}
}

// RESTClient implements Client over a Gateway.
type RESTClient struct {
	gw *Gateway
}

var _ Client = (*RESTClient)(nil)

func NewRESTClient(gw *Gateway) *RESTClient {
	return &RESTClient{gw: gw}
}

func (c *RESTClient) Login(ctx context.Context, form models.LoginForm) (*models.AuthResult, error) {
	var resp envelope[models.AuthResult]
	if err := c.gw.Send(ctx, http.MethodPost, "/auth/login", form, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *RESTClient) Register(ctx context.Context, form models.RegisterForm) (*models.AuthResult, error) {
	var resp envelope[models.AuthResult]
	if err := c.gw.Send(ctx, http.MethodPost, "/auth/register", form, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *RESTClient) Profile(ctx context.Context) (*models.User, error) {
	var resp userReply
	if err := c.gw.Send(ctx, http.MethodGet, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.get()
}

func (c *RESTClient) UpdateProfile(ctx context.Context, form models.ProfileForm) (*models.User, error) {
	var resp userReply
	if err := c.gw.Send(ctx, http.MethodPut, "/auth/profile", form, &resp); err != nil {
		return nil, err
	}
	return resp.get()
}

func (c *RESTClient) ChangePassword(ctx context.Context, form models.PasswordForm) error {
	return c.gw.Send(ctx, http.MethodPut, "/auth/password", form, nil)
}

func (c *RESTClient) UpdatePushToken(ctx context.Context, token string) error {
	body := map[string]string{"fcmToken": token}
	return c.gw.SendQuiet(ctx, http.MethodPut, "/auth/fcm-token", body, nil)
}

func (c *RESTClient) ListPets(ctx context.Context, q models.PetQuery) (*models.PetPage, error) {
	q = q.Normalized()

	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("search", q.Search)
	v.Set("species", q.Species)
	v.Set("limit", strconv.Itoa(q.Limit))

	path := "/pets"
	if q.Admin {
		path = "/pets/admin"
	}

	var page models.PetPage
	if err := c.gw.Send(ctx, http.MethodGet, path+"?"+v.Encode(), nil, &page); err != nil {
		return nil, err
	}
	if page.Pets == nil {
		page.Pets = []models.Pet{}
	}
	return &page, nil
}

func (c *RESTClient) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	var resp envelope[*models.Pet]
	if err := c.gw.Send(ctx, http.MethodGet, "/pets/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Pet not found"}
	}
	return resp.Data, nil
}

func (c *RESTClient) CreatePet(ctx context.Context, pet models.Pet) (*models.Pet, error) {
	pet.ID = ""
	var resp envelope[models.Pet]
	if err := c.gw.Send(ctx, http.MethodPost, "/pets/create", pet, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *RESTClient) UpdatePet(ctx context.Context, id string, pet models.Pet) (*models.Pet, error) {
	pet.ID = ""
	var resp envelope[models.Pet]
	if err := c.gw.Send(ctx, http.MethodPut, "/pets/update/"+url.PathEscape(id), pet, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *RESTClient) DeletePet(ctx context.Context, id string) error {
	return c.gw.Send(ctx, http.MethodDelete, "/pets/delete/"+url.PathEscape(id), nil, nil)
}

func (c *RESTClient) ApplyAdoption(ctx context.Context, petID string) (*models.Application, error) {
	body := map[string]string{"petId": petID}
	var resp envelope[models.Application]
	if err := c.gw.Send(ctx, http.MethodPost, "/adoptions/create", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *RESTClient) ListApplications(ctx context.Context) ([]models.Application, error) {
	var resp envelope[[]models.Application]
	if err := c.gw.Send(ctx, http.MethodGet, "/adoptions", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []models.Application{}
	}
	return resp.Data, nil
}

func (c *RESTClient) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	body := map[string]models.ApplicationStatus{"status": status}
	var resp envelope[models.Application]
	if err := c.gw.Send(ctx, http.MethodPut, "/adoptions/update/"+url.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
