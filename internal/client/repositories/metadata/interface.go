// Package metadata is a small key/value table in the CLI's local store.
// The login session lives there under KeySession.
package metadata

import (
	"context"
)

const KeySession = "session"

type Repository interface {
	// Get returns nil, nil for an absent key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
