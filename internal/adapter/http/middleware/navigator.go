package middleware

import (
	"context"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

type loginFlagKey struct{}

// Navigator implements ports.Navigator for the web dashboard. A backend 401
// cannot redirect the browser directly, so it flags the inbound request and
// the handler answers with a redirect to the login page.
type Navigator struct{}

// ToLogin flags the request carried by ctx, if any.
func (Navigator) ToLogin(ctx context.Context) {
	if flag, ok := ctx.Value(loginFlagKey{}).(*atomic.Bool); ok {
		flag.Store(true)
	}
}

// LoginFlag makes the request context able to carry a Navigator flag.
func LoginFlag() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), loginFlagKey{}, new(atomic.Bool))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// LoginRequested reports whether a Navigator asked for the login page
// during this request.
func LoginRequested(c *gin.Context) bool {
	flag, ok := c.Request.Context().Value(loginFlagKey{}).(*atomic.Bool)
	return ok && flag.Load()
}
