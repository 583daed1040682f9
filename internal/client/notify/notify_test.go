package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/config"
	"github.com/dmitrijs2005/petadopt/internal/client/events"
	"github.com/dmitrijs2005/petadopt/internal/client/fakeapi"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUpdater struct {
	mu     sync.Mutex
	tokens []string
	err    error
}

func (r *recordingUpdater) UpdatePushToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, token)
	return r.err
}

type failingSource struct{}

func (failingSource) Token(context.Context) (string, error) {
	return "", errors.New("no permission store")
}

func newMetadata(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

var (
	user  = models.User{ID: "u1", Email: "alice@example.com", Role: models.RoleUser}
	admin = models.User{ID: "u0", Email: "root@example.com", Role: models.RoleAdmin}
)

func TestInstallationTokenSource_IsStable(t *testing.T) {
	repo := newMetadata(t)
	ctx := context.Background()

	first, err := NewInstallationTokenSource(repo).Token(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := NewInstallationTokenSource(repo).Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := repo.Get(ctx, "pushToken")
	require.NoError(t, err)
	assert.Equal(t, first, string(stored))
}

func TestNewTokenSource(t *testing.T) {
	repo := newMetadata(t)

	src, err := NewTokenSource(&config.Config{PushMode: config.PushInstallation}, repo)
	require.NoError(t, err)
	assert.IsType(t, &InstallationTokenSource{}, src)

	src, err = NewTokenSource(&config.Config{PushMode: config.PushStatic, PushToken: "dev-1"}, repo)
	require.NoError(t, err)
	tok, _ := src.Token(context.Background())
	assert.Equal(t, "dev-1", tok)

	_, err = NewTokenSource(&config.Config{PushMode: config.PushStatic}, repo)
	require.Error(t, err)

	src, err = NewTokenSource(&config.Config{PushMode: config.PushDisabled}, repo)
	require.NoError(t, err)
	assert.Equal(t, DisabledTokenSource{}, src)

	_, err = NewTokenSource(&config.Config{PushMode: "carrier-pigeon"}, repo)
	require.Error(t, err)
}

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name   string
		user   models.User
		source TokenSource
		want   []string
	}{
		{name: "user gets registered", user: user, source: StaticTokenSource("dev-1"), want: []string{"dev-1"}},
		{name: "admin skipped", user: admin, source: StaticTokenSource("dev-1")},
		{name: "permission denied", user: user, source: DisabledTokenSource{}},
		{name: "source failure", user: user, source: failingSource{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &recordingUpdater{}
			NewRegistrar(api, tt.source, nil).HandleLogin(context.Background(), store.LoginEvent{User: tt.user, Source: store.SourceLogin})
			assert.Equal(t, tt.want, api.tokens)
		})
	}
}

func TestHandleLogin_BackendFailureIsSwallowed(t *testing.T) {
	api := &recordingUpdater{err: errors.New("boom")}
	assert.NotPanics(t, func() {
		NewRegistrar(api, StaticTokenSource("dev-1"), nil).HandleLogin(context.Background(), store.LoginEvent{User: user})
	})
	assert.Equal(t, []string{"dev-1"}, api.tokens)
}

func TestRegistrar_SubscribedToLogins(t *testing.T) {
	srv := fakeapi.New()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	alice := srv.AddUser("Alice", "alice@example.com", "secret1", "5551234567", models.RoleUser)

	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sess := session.New(session.NewSQLiteStorage(db), nil)
	gw, err := client.NewGateway(ts.URL+"/api", 0, sess, nil, nil, client.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	api := client.NewRESTClient(gw)

	bus := events.NewBus[store.LoginEvent](nil)
	bus.Subscribe(NewRegistrar(api, StaticTokenSource("dev-1"), nil).HandleLogin)
	auth := store.NewAuthStore(api, sess, bus, nil)

	_, err = auth.Login(context.Background(), models.LoginForm{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	bus.Wait()

	assert.Equal(t, "dev-1", srv.PushToken(alice.ID))
}

func TestRegistrar_RejectedTokenKeepsLogin(t *testing.T) {
	srv := fakeapi.New()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	srv.AddUser("Alice", "alice@example.com", "secret1", "5551234567", models.RoleUser)
	srv.FailNext(http.MethodPut, "/api/auth/fcm-token", http.StatusUnauthorized, "Not authorized, token failed")

	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var mu sync.Mutex
	var reasons []string
	nav := client.NavigatorFunc(func(_ context.Context, reason string) {
		mu.Lock()
		defer mu.Unlock()
		reasons = append(reasons, reason)
	})

	sess := session.New(session.NewSQLiteStorage(db), nil)
	gw, err := client.NewGateway(ts.URL+"/api", 0, sess, nav, nil, client.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	api := client.NewRESTClient(gw)

	bus := events.NewBus[store.LoginEvent](nil)
	bus.Subscribe(NewRegistrar(api, StaticTokenSource("dev-1"), nil).HandleLogin)
	auth := store.NewAuthStore(api, sess, bus, nil)

	_, err = auth.Login(context.Background(), models.LoginForm{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	bus.Wait()

	assert.Equal(t, 1, srv.Count(http.MethodPut, "/api/auth/fcm-token"))
	require.True(t, sess.IsAuthenticated())
	assert.NotEmpty(t, sess.Token())
	mu.Lock()
	assert.Empty(t, reasons)
	mu.Unlock()
}
