package notify

import (
	"context"

	"github.com/dmitrijs2005/petadopt/internal/client/store"
	"github.com/dmitrijs2005/petadopt/internal/logging"
)

type TokenUpdater interface {
	UpdatePushToken(ctx context.Context, token string) error
}

// Registrar forwards the device token after a sign-in. It is meant to be
// subscribed to the login event bus; failures never reach the user.
type Registrar struct {
	api    TokenUpdater
	source TokenSource
	log    logging.Logger
}

func NewRegistrar(api TokenUpdater, source TokenSource, log logging.Logger) *Registrar {
	if log == nil {
		log = logging.Nop()
	}
	return &Registrar{api: api, source: source, log: log.With("component", "notify")}
}

func (r *Registrar) HandleLogin(ctx context.Context, ev store.LoginEvent) {
	if ev.User.IsAdmin() {
		return
	}

	token, err := r.source.Token(ctx)
	if err != nil {
		r.log.Warn(ctx, "push token unavailable", "user", ev.User.Email, "error", err)
		return
	}
	if token == "" {
		r.log.Debug(ctx, "push notifications disabled", "user", ev.User.Email)
		return
	}

	if err := r.api.UpdatePushToken(ctx, token); err != nil {
		r.log.Warn(ctx, "push token registration failed", "user", ev.User.Email, "error", err)
		return
	}
	r.log.Debug(ctx, "push token registered", "user", ev.User.Email, "source", ev.Source)
}
