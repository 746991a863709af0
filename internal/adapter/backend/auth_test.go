package backend

import (
	"context"
	"net/http"
	"testing"

	"balance-dashboard/internal/core/domain"
	"balance-dashboard/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.POST("/api/auth/login", func(c *gin.Context) {
		var creds domain.Credentials
		require.NoError(t, c.ShouldBindJSON(&creds))
		if creds.Password != "secret" {
			c.String(http.StatusBadRequest, "Incorrect username or password")
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": "jwt-" + creds.Username, "token_type": "bearer"})
	})
	r.POST("/api/auth/register", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token_type": "bearer"})
	})
	return r
}

func TestClient_Login(t *testing.T) {
	f := setupClient(t, authRouter(t), "")
	ctx := context.Background()

	token, err := f.client.Login(ctx, domain.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-alice", token.AccessToken)
	assert.Equal(t, domain.TokenTypeBearer, token.TokenType)
	assert.False(t, f.session.IsAuthenticated(), "the client never stores the token itself")

	_, err = f.client.Login(ctx, domain.Credentials{Username: "alice", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", err.Error())
}

func TestClient_Register_MissingToken(t *testing.T) {
	f := setupClient(t, authRouter(t), "")

	_, err := f.client.Register(context.Background(), domain.Credentials{Username: "bob", Password: "pw"})
	assert.True(t, apperror.HasCode(err, apperror.CodeDecode))
}
