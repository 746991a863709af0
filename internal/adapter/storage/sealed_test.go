package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"balance-dashboard/config"
	"balance-dashboard/internal/adapter/storage/file"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Valid 32-byte key in hex (64 chars)
const testAESKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newSealedFileStore(t *testing.T, key string) (*SealedStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	s, err := NewSealedStore(file.NewTokenStore(path), key)
	require.NoError(t, err)
	return s, path
}

func TestNewSealedStore_InvalidKey(t *testing.T) {
	_, err := NewSealedStore(file.NewTokenStore("unused"), "shortkey")
	assert.Error(t, err)

	_, err = NewSealedStore(file.NewTokenStore("unused"), "abcdef")
	assert.Error(t, err)
}

func TestSealedStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, path := newSealedFileStore(t, testAESKey)

	token, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.Save(ctx, "eyJhbGciOiJIUzI1NiJ9.payload.sig"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "payload")

	token, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", token)

	require.NoError(t, s.Remove(ctx))
	assert.NoFileExists(t, path)
}

func TestSealedStore_DifferentNonces(t *testing.T) {
	ctx := context.Background()
	s, path := newSealedFileStore(t, testAESKey)

	require.NoError(t, s.Save(ctx, "same"))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "same"))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotEqual(t, string(first), string(second))
}

func TestSealedStore_WrongKey(t *testing.T) {
	ctx := context.Background()
	s, path := newSealedFileStore(t, testAESKey)
	require.NoError(t, s.Save(ctx, "secret"))

	other, err := NewSealedStore(file.NewTokenStore(path),
		"abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789")
	require.NoError(t, err)

	_, err = other.Load(ctx)
	assert.Error(t, err)
}

func TestSealedStore_Tampered(t *testing.T) {
	ctx := context.Background()
	s, path := newSealedFileStore(t, testAESKey)

	require.NoError(t, os.WriteFile(path, []byte("not-hex-at-all!!!"), 0o600))
	_, err := s.Load(ctx)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0o600))
	_, err = s.Load(ctx)
	assert.Error(t, err)

	require.NoError(t, s.Save(ctx, "secret"))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := string(raw[:len(raw)-2]) + "ff"
	if tampered == string(raw) {
		tampered = string(raw[:len(raw)-2]) + "00"
	}
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o600))
	_, err = s.Load(ctx)
	assert.Error(t, err)
}

func TestOpenTokenSlot_Sealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	cfg := &config.Config{Session: config.SessionConfig{
		Store:         config.StoreFile,
		File:          path,
		EncryptionKey: testAESKey,
	}}
	ctx := context.Background()

	slot, err := OpenTokenSlot(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer slot.Close()

	require.IsType(t, &SealedStore{}, slot.Store)
	require.NoError(t, slot.Store.Save(ctx, "jwt"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "jwt", string(raw))

	token, err := slot.Store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)
}
