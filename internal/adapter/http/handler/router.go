package handler

import (
	"net/http"
	"time"

	"balance-dashboard/internal/adapter/http/middleware"
	"balance-dashboard/internal/core/ports"
	"balance-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	DashboardSvc   ports.DashboardService
	Session        *session.Session
	Location       *time.Location // nil = time.Local
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	r.Use(middleware.LoginFlag())

	r.SetHTMLTemplate(Templates(loc))

	// Health check (pings the token slot backend when it is remote)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	authHandler := NewAuthHandler(deps.AuthSvc, deps.Session, deps.Logger)
	dashboardHandler := NewDashboardHandler(deps.DashboardSvc, loc)

	// --- Public routes ---
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	r.GET(LoginPath, authHandler.LoginPage)
	r.POST(LoginPath, authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// --- Private routes ---
	guard := middleware.RequireSession(deps.Session, LoginPath)

	pages := r.Group("/dashboard", guard)
	{
		pages.GET("", dashboardHandler.Overview)
		pages.GET("/accounts/:id", dashboardHandler.AccountDetail)
	}

	api := r.Group("/api")
	{
		api.GET("/session", authHandler.Session)
		api.GET("/accounts", guard, dashboardHandler.ListAccounts)
		api.GET("/accounts/:id/changes", guard, dashboardHandler.ListChanges)
	}

	return r
}
