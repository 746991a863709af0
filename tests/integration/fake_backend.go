package integration

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// fakeBackend is an in-memory accounts backend. It issues one JWT per login
// and rejects it once revoked.
type fakeBackend struct {
	mu       sync.Mutex
	tokens   map[string]bool
	auth     []string // Authorization headers seen on protected routes
	lastFrom string
	lastTo   string
	now      time.Time
}

func newFakeBackend(now time.Time) *fakeBackend {
	return &fakeBackend{tokens: make(map[string]bool), now: now}
}

func (b *fakeBackend) mint(username string) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": b.now.Unix(),
		"exp": b.now.Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-signing-key"))
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	b.tokens[token] = true
	b.mu.Unlock()
	return token, nil
}

// revokeAll makes every issued token answer 401.
func (b *fakeBackend) revokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t := range b.tokens {
		b.tokens[t] = false
	}
}

func (b *fakeBackend) seenAuth() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.auth...)
}

func (b *fakeBackend) lastRange() (string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastFrom, b.lastTo
}

func (b *fakeBackend) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")

	b.mu.Lock()
	b.auth = append(b.auth, header)
	valid := len(header) > len("Bearer ") && b.tokens[header[len("Bearer "):]]
	b.mu.Unlock()

	if !valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.Next()
}

func (b *fakeBackend) router() http.Handler {
	r := gin.New()

	r.POST("/auth/login", func(c *gin.Context) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.String(http.StatusUnprocessableEntity, "malformed credentials")
			return
		}
		if creds.Username != "alice" || creds.Password != "wonderland" {
			c.String(http.StatusBadRequest, "Invalid password")
			return
		}
		token, err := b.mint(creds.Username)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
	})

	protected := r.Group("", b.requireToken)
	protected.GET("/accounts", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"id": "acc-1", "name": "Operating", "current_balance": 112.0, "last_balance_update": b.now.Add(-time.Hour).Format(time.RFC3339)},
			// legacy field name and a naive timestamp
			{"id": "acc-2", "name": "Reserve", "balance": 40.0, "last_balance_update": "2025-01-01T00:00:00.000000"},
		})
	})
	protected.GET("/balance_change/:id", func(c *gin.Context) {
		b.mu.Lock()
		b.lastFrom, b.lastTo = c.Query("date_from"), c.Query("date_to")
		b.mu.Unlock()

		if c.Param("id") != "acc-1" {
			c.JSON(http.StatusOK, []gin.H{})
			return
		}
		c.JSON(http.StatusOK, []gin.H{
			{"id": "bc-1", "created_at": b.now.Add(-5 * time.Hour).Format(time.RFC3339), "account_id": "acc-1", "state": "deposit", "balance": 110.0, "balance_diff": 10.0},
			{"id": "bc-2", "created_at": b.now.Add(-4 * time.Hour).Format(time.RFC3339), "account_id": "acc-1", "state": "withdraw", "balance": 107.0, "balance_diff": -3.0},
			{"id": "bc-3", "created_at": b.now.Add(-3 * time.Hour).Format(time.RFC3339), "account_id": "acc-1", "state": "update", "balance": 112.0, "balance_diff": 5.0},
		})
	})

	return r
}
