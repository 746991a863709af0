package handler

import (
	"net/http"
	"time"

	"balance-dashboard/internal/adapter/http/dto"
	"balance-dashboard/internal/core/domain"
	"balance-dashboard/internal/core/ports"
	"balance-dashboard/internal/core/view"
	"balance-dashboard/pkg/apperror"
	"balance-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the account list and account detail views, as
// HTML pages and as a JSON API.
type DashboardHandler struct {
	svc ports.DashboardService
	loc *time.Location
	now func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler. Day boundaries of
// date ranges are computed in loc.
func NewDashboardHandler(svc ports.DashboardService, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{svc: svc, loc: loc, now: time.Now}
}

type dashboardPage struct {
	Search   string
	Overview *ports.Overview
	Error    string
}

// Overview handles GET /dashboard.
func (h *DashboardHandler) Overview(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.HTML(http.StatusBadRequest, "dashboard.html", dashboardPage{Error: "search is too long"})
		return
	}
	dto.SanitizeStruct(&q)

	overview, err := h.svc.Overview(c.Request.Context(), q.Search)
	if err != nil {
		if signedOut(c, err) {
			return
		}
		c.HTML(statusOf(err), "dashboard.html", dashboardPage{Search: q.Search, Error: err.Error()})
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", dashboardPage{Search: q.Search, Overview: overview})
}

type accountPage struct {
	AccountID   string
	From, To    string
	View        string
	Presets     []domain.RangePreset
	Detail      *ports.AccountDetail
	BalancePlot view.Plot
	DiffPlot    view.Plot
	Error       string
}

// AccountDetail handles GET /dashboard/accounts/:id.
func (h *DashboardHandler) AccountDetail(c *gin.Context) {
	page := accountPage{
		AccountID: c.Param("id"),
		View:      dto.ViewTable,
		Presets:   domain.RangePresets,
	}

	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		page.Error = "invalid date range or view"
		c.HTML(http.StatusBadRequest, "account.html", page)
		return
	}
	page.View = q.ViewOrDefault()

	r, err := q.Range(h.now(), h.loc)
	if err != nil {
		page.Error = err.Error()
		c.HTML(http.StatusBadRequest, "account.html", page)
		return
	}
	page.From = r.From.In(h.loc).Format(dto.DateLayout)
	page.To = r.To.In(h.loc).Format(dto.DateLayout)

	detail, err := h.svc.AccountDetail(c.Request.Context(), page.AccountID, r)
	if err != nil {
		if signedOut(c, err) {
			return
		}
		page.Error = err.Error()
		c.HTML(statusOf(err), "account.html", page)
		return
	}

	page.Detail = detail
	page.BalancePlot = view.NewPlot(detail.BalanceSeries, false)
	page.DiffPlot = view.NewPlot(detail.DiffSeries, true)
	c.HTML(http.StatusOK, "account.html", page)
}

// ListAccounts handles GET /api/accounts.
func (h *DashboardHandler) ListAccounts(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&q)

	overview, err := h.svc.Overview(c.Request.Context(), q.Search)
	if err != nil {
		if signedOut(c, err) {
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, overview)
}

// ListChanges handles GET /api/accounts/:id/changes.
func (h *DashboardHandler) ListChanges(c *gin.Context) {
	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	r, err := q.Range(h.now(), h.loc)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	detail, err := h.svc.AccountDetail(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		if signedOut(c, err) {
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}
