package storage

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// SealedStore encrypts saves with AES-GCM before handing them to the wrapped
// store. Blobs that fail to open are reported as ErrCorrupt.
type SealedStore struct {
	next Store
	aead cipher.AEAD
}

func NewSealedStore(next Store, key []byte) (*SealedStore, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("invalid save encryption key: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &SealedStore{next: next, aead: aead}, nil
}

func (s *SealedStore) Load(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.next.Load(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}

	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, fmt.Errorf("%s: truncated payload: %w", key, ErrCorrupt)
	}
	plain, err := s.aead.Open(nil, sealed[:n], sealed[n:], []byte(key))
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", key, err, ErrCorrupt)
	}
	return plain, nil
}

func (s *SealedStore) Save(ctx context.Context, key string, data []byte) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(data)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	// The key is bound as additional data so a blob cannot be replayed under
	// another player's key.
	return s.next.Save(ctx, key, s.aead.Seal(nonce, nonce, data, []byte(key)))
}
