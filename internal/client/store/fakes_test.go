package store

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements every store API with overridable funcs and counts
// calls per method.
type fakeAPI struct {
	calls sync.Map

	login          func(ctx context.Context, f models.LoginForm) (*models.AuthResult, error)
	register       func(ctx context.Context, f models.RegisterForm) (*models.AuthResult, error)
	profile        func(ctx context.Context) (*models.User, error)
	updateProfile  func(ctx context.Context, f models.ProfileForm) (*models.User, error)
	changePassword func(ctx context.Context, f models.PasswordForm) error

	listPets  func(ctx context.Context, q models.PetQuery) (*models.PetPage, error)
	getPet    func(ctx context.Context, id string) (*models.Pet, error)
	createPet func(ctx context.Context, p models.Pet) (*models.Pet, error)
	updatePet func(ctx context.Context, id string, p models.Pet) (*models.Pet, error)
	deletePet func(ctx context.Context, id string) error

	apply        func(ctx context.Context, petID string) (*models.Application, error)
	listApps     func(ctx context.Context) ([]models.Application, error)
	updateStatus func(ctx context.Context, id string, st models.ApplicationStatus) (*models.Application, error)
}

func (f *fakeAPI) hit(name string) {
	v, _ := f.calls.LoadOrStore(name, new(atomic.Int32))
	v.(*atomic.Int32).Add(1)
}

func (f *fakeAPI) count(name string) int {
	v, ok := f.calls.Load(name)
	if !ok {
		return 0
	}
	return int(v.(*atomic.Int32).Load())
}

func (f *fakeAPI) total() int {
	n := 0
	f.calls.Range(func(_, v any) bool {
		n += int(v.(*atomic.Int32).Load())
		return true
	})
	return n
}

func (f *fakeAPI) Login(ctx context.Context, form models.LoginForm) (*models.AuthResult, error) {
	f.hit("Login")
	return f.login(ctx, form)
}

func (f *fakeAPI) Register(ctx context.Context, form models.RegisterForm) (*models.AuthResult, error) {
	f.hit("Register")
	return f.register(ctx, form)
}

func (f *fakeAPI) Profile(ctx context.Context) (*models.User, error) {
	f.hit("Profile")
	return f.profile(ctx)
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, form models.ProfileForm) (*models.User, error) {
	f.hit("UpdateProfile")
	return f.updateProfile(ctx, form)
}

func (f *fakeAPI) ChangePassword(ctx context.Context, form models.PasswordForm) error {
	f.hit("ChangePassword")
	return f.changePassword(ctx, form)
}

func (f *fakeAPI) UpdatePushToken(context.Context, string) error {
	f.hit("UpdatePushToken")
	return nil
}

func (f *fakeAPI) ListPets(ctx context.Context, q models.PetQuery) (*models.PetPage, error) {
	f.hit("ListPets")
	return f.listPets(ctx, q)
}

func (f *fakeAPI) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	f.hit("GetPet")
	return f.getPet(ctx, id)
}

func (f *fakeAPI) CreatePet(ctx context.Context, p models.Pet) (*models.Pet, error) {
	f.hit("CreatePet")
	return f.createPet(ctx, p)
}

func (f *fakeAPI) UpdatePet(ctx context.Context, id string, p models.Pet) (*models.Pet, error) {
	f.hit("UpdatePet")
	return f.updatePet(ctx, id, p)
}

func (f *fakeAPI) DeletePet(ctx context.Context, id string) error {
	f.hit("DeletePet")
	return f.deletePet(ctx, id)
}

func (f *fakeAPI) ApplyAdoption(ctx context.Context, petID string) (*models.Application, error) {
	f.hit("ApplyAdoption")
	return f.apply(ctx, petID)
}

func (f *fakeAPI) ListApplications(ctx context.Context) ([]models.Application, error) {
	f.hit("ListApplications")
	return f.listApps(ctx)
}

func (f *fakeAPI) UpdateApplicationStatus(ctx context.Context, id string, st models.ApplicationStatus) (*models.Application, error) {
	f.hit("UpdateApplicationStatus")
	return f.updateStatus(ctx, id, st)
}

var _ client.Client = (*fakeAPI)(nil)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newSession(t *testing.T) (*session.Session, *sql.DB) {
	t.Helper()
	db := newDB(t)
	return session.New(session.NewSQLiteStorage(db), nil), db
}

type navRecorder struct {
	mu      sync.Mutex
	reasons []string
}

func (n *navRecorder) ToLogin(_ context.Context, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reasons = append(n.reasons, reason)
}

func (n *navRecorder) got() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.reasons...)
}

type authFlag bool

func (a authFlag) IsAuthenticated() bool { return bool(a) }

// waitStarted blocks until n calls have signalled on ch.
func waitStarted(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		<-ch
	}
}
