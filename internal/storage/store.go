// Package storage persists opaque save blobs by key. Game code never sees
// where the bytes live; it only relies on Load returning nil for a key that
// was never written.
package storage

import (
	"context"
	"errors"
)

// ErrCorrupt marks data that exists but cannot be read back, such as a blob
// that fails decryption. Callers treat it as absent.
var ErrCorrupt = errors.New("stored data is corrupt")

type Store interface {
	// Load returns nil, nil when key has never been saved.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
