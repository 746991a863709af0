package storage

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"balance-dashboard/internal/core/ports"
)

// SealedStore encrypts the token with AES-256-GCM before handing it to the
// underlying store. The stored value is hex: nonce followed by ciphertext.
type SealedStore struct {
	next ports.TokenStore
	aead cipher.AEAD
}

var _ ports.TokenStore = (*SealedStore)(nil)

// NewSealedStore wraps next. hexKey must be a 64-character hex string
// (32 bytes decoded).
func NewSealedStore(next ports.TokenStore, hexKey string) (*SealedStore, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding AES key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("AES key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &SealedStore{next: next, aead: aead}, nil
}

// Load opens the stored token. An empty slot stays "".
func (s *SealedStore) Load(ctx context.Context) (string, error) {
	sealed, err := s.next.Load(ctx)
	if err != nil || sealed == "" {
		return sealed, err
	}

	data, err := hex.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decoding sealed token: %w", err)
	}
	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("sealed token too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	token, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypting token: %w", err)
	}
	return string(token), nil
}

// Save seals token under a fresh nonce.
func (s *SealedStore) Save(ctx context.Context, token string) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(token), nil)
	return s.next.Save(ctx, hex.EncodeToString(sealed))
}

func (s *SealedStore) Remove(ctx context.Context) error {
	return s.next.Remove(ctx)
}
