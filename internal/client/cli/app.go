package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/config"
	"github.com/dmitrijs2005/petadopt/internal/client/events"
	"github.com/dmitrijs2005/petadopt/internal/client/images"
	"github.com/dmitrijs2005/petadopt/internal/client/notify"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/pets"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/client/store"
	"github.com/dmitrijs2005/petadopt/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	session *session.Session
	bus     *events.Bus[store.LoginEvent]

	auth      *store.AuthStore
	pets      *store.PetStore
	adoptions *store.AdoptionStore

	reader *bufio.Reader
	out    io.Writer
}

type AppOption func(*App)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) AppOption {
	return func(a *App) {
		a.reader = bufio.NewReader(in)
		a.out = out
	}
}

// NewApp opens the local database, restores any saved session and builds
// the stores. The App is the Navigator of its own gateway.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, opts ...AppOption) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", cfg.DatabasePath, "error", err)
		return nil, err
	}

	a := &App{
		config: cfg,
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	for _, o := range opts {
		o(a)
	}

	if err := a.wire(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	a.session = session.New(session.NewSQLiteStorage(a.db), a.log)
	if err := a.session.Hydrate(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}

	gw, err := client.NewGateway(a.config.APIBaseURL, a.config.RequestTimeout, a.session, a, a.log)
	if err != nil {
		return err
	}
	api := client.NewRESTClient(gw)

	tokens, err := notify.NewTokenSource(a.config, metadata.NewSQLiteRepository(a.db))
	if err != nil {
		return err
	}
	a.bus = events.NewBus[store.LoginEvent](a.log)
	a.bus.Subscribe(notify.NewRegistrar(api, tokens, a.log).HandleLogin)

	petOpts := []store.PetStoreOption{
		store.WithCache(pets.NewSQLiteRepository(a.db)),
		store.WithPetLogger(a.log),
	}
	if a.config.ImagesEnabled() {
		up, err := images.NewS3Uploader(ctx, a.config, a.log)
		if err != nil {
			return err
		}
		petOpts = append(petOpts, store.WithUploader(up))
	}

	a.auth = store.NewAuthStore(api, a.session, a.bus, a.log)
	a.pets = store.NewPetStore(api, petOpts...)
	a.adoptions = store.NewAdoptionStore(api, a.session, a, a.log)
	return nil
}

// ToLogin is called whenever an action needs a fresh sign-in.
func (a *App) ToLogin(_ context.Context, reason string) {
	fmt.Fprintf(a.out, "%s. Type 'login' to sign in.\n", reason)
}

// Run starts the REPL and releases the database when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to petadopt (type 'help' for commands)")
	if u := a.session.User(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Name)
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// Close waits for post-login handlers and closes the database.
func (a *App) Close() {
	a.bus.Wait()
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	return a.session.User().IsAdmin()
}

func (a *App) getStatus() string {
	u := a.session.User()
	if u == nil {
		return ""
	}
	return fmt.Sprintf(" (%s %s)", u.Name, u.Role)
}
