package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"balance-dashboard/internal/adapter/http/middleware"
	"balance-dashboard/internal/core/view"
	"balance-dashboard/pkg/apperror"
	"balance-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// LoginPath is where signed-out browsers are sent.
const LoginPath = "/login"

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded pages. Times are shown in loc.
func Templates(loc *time.Location) *template.Template {
	funcs := template.FuncMap{
		"amount":    view.FormatAmount,
		"delta":     view.FormatDelta,
		"tone":      view.ToneOf,
		"toneClass": func(t view.Tone) string { return "tone-" + string(t) },
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return t.In(loc).Format("2006-01-02 15:04")
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// statusOf maps an error to the status of the page showing it.
func statusOf(err error) int {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusBadRequest {
			return appErr.HTTPStatus
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// signedOut handles the 401 transition of an inbound request. It returns
// false when err is unrelated to the session.
func signedOut(c *gin.Context, err error) bool {
	if !apperror.IsUnauthorized(err) && !middleware.LoginRequested(c) {
		return false
	}
	if middleware.IsAPIRequest(c) {
		response.Error(c, apperror.ErrUnauthorized())
	} else {
		c.Redirect(http.StatusSeeOther, LoginPath)
	}
	return true
}
