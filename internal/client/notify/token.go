package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/petadopt/internal/client/config"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/google/uuid"
)

// TokenSource yields the device token to register. An empty token means
// notifications are not permitted and nothing should be sent.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// InstallationTokenSource returns a random id generated on first use and
// persisted, so every login of this installation reports the same token.
type InstallationTokenSource struct {
	repo metadata.Repository
}

func NewInstallationTokenSource(repo metadata.Repository) *InstallationTokenSource {
	return &InstallationTokenSource{repo: repo}
}

func (s *InstallationTokenSource) Token(ctx context.Context) (string, error) {
	b, err := s.repo.Get(ctx, common.StorageKeyPushToken)
	switch {
	case err == nil && len(b) > 0:
		return string(b), nil
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return "", err
	}

	token := uuid.NewString()
	if err := s.repo.Set(ctx, common.StorageKeyPushToken, []byte(token)); err != nil {
		return "", fmt.Errorf("persist push token: %w", err)
	}
	return token, nil
}

type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) { return string(s), nil }

// DisabledTokenSource behaves like a denied notification permission.
type DisabledTokenSource struct{}

func (DisabledTokenSource) Token(context.Context) (string, error) { return "", nil }

// NewTokenSource picks the source configured by cfg.PushMode.
func NewTokenSource(cfg *config.Config, repo metadata.Repository) (TokenSource, error) {
	switch cfg.PushMode {
	case config.PushInstallation:
		return NewInstallationTokenSource(repo), nil
	case config.PushStatic:
		if cfg.PushToken == "" {
			return nil, errors.New("static push mode requires a push token")
		}
		return StaticTokenSource(cfg.PushToken), nil
	case config.PushDisabled, "":
		return DisabledTokenSource{}, nil
	default:
		return nil, fmt.Errorf("unknown push mode %q", cfg.PushMode)
	}
}
