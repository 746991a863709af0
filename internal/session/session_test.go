package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"balance-dashboard/internal/core/ports/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestSession_SetToken(t *testing.T) {
	var s Session
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "", s.Token())

	s.SetToken("abc")
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "abc", s.Token())

	s.SetToken("")
	assert.False(t, s.IsAuthenticated())
}

func TestSession_Expire(t *testing.T) {
	s := New("abc")

	assert.False(t, s.Expire("other"), "stale token must not clear a newer one")
	assert.True(t, s.IsAuthenticated())

	assert.True(t, s.Expire("abc"))
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.Expire("abc"))
	assert.False(t, s.Expire(""))
}

func TestSession_Expire_Concurrent(t *testing.T) {
	s := New("abc")

	var cleared atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Expire("abc") {
				cleared.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), cleared.Load())
	assert.False(t, s.IsAuthenticated())
}

func TestSession_Restore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("token found", func(t *testing.T) {
		store := mocks.NewMockTokenStore(ctrl)
		store.EXPECT().Load(ctx).Return("persisted", nil)

		var s Session
		found, err := s.Restore(ctx, store)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "persisted", s.Token())
	})

	t.Run("empty slot", func(t *testing.T) {
		store := mocks.NewMockTokenStore(ctrl)
		store.EXPECT().Load(ctx).Return("", nil)

		var s Session
		found, err := s.Restore(ctx, store)
		require.NoError(t, err)
		assert.False(t, found)
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("store failure", func(t *testing.T) {
		store := mocks.NewMockTokenStore(ctrl)
		store.EXPECT().Load(ctx).Return("", errors.New("disk gone"))

		s := New("keep")
		_, err := s.Restore(ctx, store)
		assert.ErrorContains(t, err, "disk gone")
		assert.Equal(t, "keep", s.Token())
	})
}

func TestSession_Claims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := New(signedToken(t, jwt.MapClaims{"sub": "alice", "exp": exp.Unix()}))

	c, err := s.Claims()
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Subject)
	assert.True(t, exp.Equal(c.ExpiresAt))
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp.Add(time.Second)))
}

func TestSession_Claims_Errors(t *testing.T) {
	_, err := New("").Claims()
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = New("opaque-token").Claims()
	assert.Error(t, err)

	c, err := New(signedToken(t, jwt.MapClaims{"sub": "bob"})).Claims()
	require.NoError(t, err)
	assert.True(t, c.ExpiresAt.IsZero())
	assert.False(t, c.Expired(time.Now()))
}
