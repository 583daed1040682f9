// Package metadata stores small named values of the client, such as the
// session token, the signed-in user and the installation push token.
package metadata

import "context"

type Repository interface {
	// Get returns common.ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes every listed key. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
