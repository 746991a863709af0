package handler

import (
	"net/http"

	"balance-dashboard/internal/adapter/http/dto"
	"balance-dashboard/internal/core/domain"
	"balance-dashboard/internal/core/ports"
	"balance-dashboard/internal/session"
	"balance-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles the login page and the session endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
	session *session.Session
	log     zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService, sess *session.Session, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, session: sess, log: log}
}

type loginPage struct {
	Username string
	Error    string
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if h.session.IsAuthenticated() {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.html", loginPage{})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", loginPage{
			Username: form.Username,
			Error:    "Username and password are required",
		})
		return
	}
	dto.SanitizeStruct(&form)

	err := h.authSvc.Login(c.Request.Context(), domain.Credentials{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		c.HTML(statusOf(err), "login.html", loginPage{Username: form.Username, Error: err.Error()})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout handles POST /logout. The browser lands on the login page even if
// the persisted token could not be removed.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("logout did not clear persisted token")
	}
	c.Redirect(http.StatusSeeOther, LoginPath)
}

// Session handles GET /api/session.
func (h *AuthHandler) Session(c *gin.Context) {
	resp := dto.SessionResponse{Authenticated: h.session.IsAuthenticated()}
	if claims, err := h.session.Claims(); err == nil {
		resp.Subject = claims.Subject
		if !claims.ExpiresAt.IsZero() {
			resp.ExpiresAt = &claims.ExpiresAt
		}
	}
	response.OK(c, resp)
}

// HealthCheck handles GET /health, pinging every remote dependency.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
