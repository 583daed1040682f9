package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/events"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = models.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: models.RoleUser}
	bob   = models.User{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: models.RoleUser}
)

func loginAs(u models.User) func(context.Context, models.LoginForm) (*models.AuthResult, error) {
	return func(context.Context, models.LoginForm) (*models.AuthResult, error) {
		return &models.AuthResult{Token: "tok-" + u.ID, User: u}, nil
	}
}

func TestLogin_ShortPassword_NoCallNoStateChange(t *testing.T) {
	sess, _ := newSession(t)
	api := &fakeAPI{}
	s := NewAuthStore(api, sess, nil, nil)

	_, err := s.Login(context.Background(), models.LoginForm{Email: "alice@example.com", Password: "abc12"})

	var ve models.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Password must be at least 6 characters", ve["password"])
	assert.Equal(t, 0, api.total())
	assert.Equal(t, StatusIdle, s.Snapshot().Status)
}

func TestLogin_Success_EstablishesSessionAndPublishes(t *testing.T) {
	sess, db := newSession(t)
	bus := events.NewBus[LoginEvent](nil)

	var mu sync.Mutex
	var got []LoginEvent
	bus.Subscribe(func(_ context.Context, ev LoginEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
	})

	s := NewAuthStore(&fakeAPI{login: loginAs(alice)}, sess, bus, nil)
	u, err := s.Login(context.Background(), models.LoginForm{Email: alice.Email, Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, alice, *u)

	st := s.Snapshot()
	assert.True(t, st.Authenticated)
	assert.Equal(t, "tok-u1", st.Token)
	assert.Equal(t, StatusFulfilled, st.Status)
	assert.False(t, st.Loading)

	bus.Wait()
	assert.Equal(t, []LoginEvent{{User: alice, Source: SourceLogin}}, got)

	restored := session.New(session.NewSQLiteStorage(db), nil)
	require.NoError(t, restored.Hydrate(context.Background()))
	assert.Equal(t, "tok-u1", restored.Token())
}

func TestLogin_Rejected_ShowsServerMessage(t *testing.T) {
	sess, _ := newSession(t)
	api := &fakeAPI{login: func(context.Context, models.LoginForm) (*models.AuthResult, error) {
		return nil, &client.APIError{StatusCode: 400, Message: "Invalid email or password"}
	}}
	s := NewAuthStore(api, sess, nil, nil)

	_, err := s.Login(context.Background(), models.LoginForm{Email: alice.Email, Password: "secret1"})
	require.Error(t, err)

	st := s.Snapshot()
	assert.Equal(t, StatusRejected, st.Status)
	assert.Equal(t, "Invalid email or password", st.Error)
	assert.False(t, st.Authenticated)

	s.ClearError()
	assert.Empty(t, s.Snapshot().Error)
}

func TestLogin_TransportFailure_UsesDefaultMessage(t *testing.T) {
	sess, _ := newSession(t)
	api := &fakeAPI{login: func(context.Context, models.LoginForm) (*models.AuthResult, error) {
		return nil, errors.New("boom")
	}}
	s := NewAuthStore(api, sess, nil, nil)

	_, _ = s.Login(context.Background(), models.LoginForm{Email: alice.Email, Password: "secret1"})
	assert.Equal(t, "Login failed", s.Snapshot().Error)
}

func TestLogin_Superseded_NeverEstablishes(t *testing.T) {
	sess, _ := newSession(t)

	started := make(chan struct{}, 2)
	releaseFirst := make(chan struct{})
	api := &fakeAPI{login: func(_ context.Context, f models.LoginForm) (*models.AuthResult, error) {
		started <- struct{}{}
		if f.Email == alice.Email {
			<-releaseFirst
			return &models.AuthResult{Token: "tok-u1", User: alice}, nil
		}
		return &models.AuthResult{Token: "tok-u2", User: bob}, nil
	}}
	s := NewAuthStore(api, sess, nil, nil)
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Login(ctx, models.LoginForm{Email: alice.Email, Password: "secret1"})
		firstErr <- err
	}()
	waitStarted(t, started, 1)

	_, err := s.Login(ctx, models.LoginForm{Email: bob.Email, Password: "secret1"})
	require.NoError(t, err)

	close(releaseFirst)
	require.ErrorIs(t, <-firstErr, ErrSuperseded)

	assert.Equal(t, bob, *s.Snapshot().User)
	assert.Equal(t, StatusFulfilled, s.Snapshot().Status)
}

func TestLogout_AbandonsInFlightLogin(t *testing.T) {
	sess, _ := newSession(t)

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	api := &fakeAPI{login: func(context.Context, models.LoginForm) (*models.AuthResult, error) {
		started <- struct{}{}
		<-release
		return &models.AuthResult{Token: "tok-u1", User: alice}, nil
	}}
	s := NewAuthStore(api, sess, nil, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := s.Login(ctx, models.LoginForm{Email: alice.Email, Password: "secret1"})
		done <- err
	}()
	waitStarted(t, started, 1)

	require.NoError(t, s.Logout(ctx))
	close(release)

	require.ErrorIs(t, <-done, ErrSuperseded)
	st := s.Snapshot()
	assert.False(t, st.Authenticated)
	assert.Equal(t, StatusIdle, st.Status)
}

func TestLogout_ClearsMemoryAndStorage(t *testing.T) {
	sess, db := newSession(t)
	api := &fakeAPI{login: loginAs(alice)}
	s := NewAuthStore(api, sess, nil, nil)
	ctx := context.Background()

	_, err := s.Login(ctx, models.LoginForm{Email: alice.Email, Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))

	st := s.Snapshot()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
	assert.False(t, st.Authenticated)
	assert.Equal(t, 1, api.total(), "logout must not call the backend")

	token, user, err := session.NewSQLiteStorage(db).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestRegister_PublishesRegisterSource(t *testing.T) {
	sess, _ := newSession(t)
	bus := events.NewBus[LoginEvent](nil)
	var got LoginEvent
	bus.Subscribe(func(_ context.Context, ev LoginEvent) { got = ev })

	api := &fakeAPI{register: func(_ context.Context, f models.RegisterForm) (*models.AuthResult, error) {
		return &models.AuthResult{Token: "t", User: models.User{ID: "u9", Name: f.Name, Email: f.Email, Role: models.RoleUser}}, nil
	}}
	s := NewAuthStore(api, sess, bus, nil)

	_, err := s.Register(context.Background(), models.RegisterForm{
		Name: "Carol", Email: "carol@example.com", Password: "secret1", ConfirmPassword: "secret1", Phone: "5551234567",
	})
	require.NoError(t, err)
	bus.Wait()
	assert.Equal(t, SourceRegister, got.Source)
	assert.Equal(t, "Carol", got.User.Name)
}

func TestRegister_InvalidForm_NoCall(t *testing.T) {
	sess, _ := newSession(t)
	api := &fakeAPI{}
	s := NewAuthStore(api, sess, nil, nil)

	_, err := s.Register(context.Background(), models.RegisterForm{Name: "Al"})
	require.Error(t, err)
	assert.Equal(t, 0, api.total())
}

func TestFetchProfile_ReplacesUser(t *testing.T) {
	sess, _ := newSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Establish(ctx, "tok", alice))

	renamed := alice
	renamed.Name = "Alice Smith"
	api := &fakeAPI{profile: func(context.Context) (*models.User, error) { return &renamed, nil }}
	s := NewAuthStore(api, sess, nil, nil)

	_, err := s.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", s.Snapshot().User.Name)
}

func TestFetchProfile_NotFoundRejected(t *testing.T) {
	sess, _ := newSession(t)
	api := &fakeAPI{profile: func(context.Context) (*models.User, error) {
		return nil, common.ErrNotFound
	}}
	s := NewAuthStore(api, sess, nil, nil)

	_, err := s.FetchProfile(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch profile", s.Snapshot().Error)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	sess, _ := newSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Establish(ctx, "tok", alice))

	api := &fakeAPI{
		updateProfile: func(_ context.Context, f models.ProfileForm) (*models.User, error) {
			u := alice
			u.Phone = f.Phone
			return &u, nil
		},
		changePassword: func(_ context.Context, f models.PasswordForm) error {
			if f.CurrentPassword != "secret1" {
				return &client.APIError{StatusCode: 400, Message: "Current password is incorrect"}
			}
			return nil
		},
	}
	s := NewAuthStore(api, sess, nil, nil)

	_, err := s.UpdateProfile(ctx, models.ProfileForm{Phone: "5559998888"})
	require.NoError(t, err)
	assert.Equal(t, "5559998888", s.Snapshot().User.Phone)

	err = s.ChangePassword(ctx, models.PasswordForm{CurrentPassword: "nope12", NewPassword: "secret2", ConfirmPassword: "secret2"})
	require.Error(t, err)
	assert.Equal(t, "Current password is incorrect", s.Snapshot().Error)

	require.NoError(t, s.ChangePassword(ctx, models.PasswordForm{CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret2"}))
	assert.Equal(t, StatusFulfilled, s.Snapshot().Status)

	require.Error(t, s.ChangePassword(ctx, models.PasswordForm{}))
	assert.Equal(t, 2, api.count("ChangePassword"))
}
