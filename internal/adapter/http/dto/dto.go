package dto

import (
	"fmt"
	"time"

	"balance-dashboard/internal/core/domain"
)

// DateLayout is the format of the from/to query parameters.
const DateLayout = "2006-01-02"

// Chart views of the account detail page.
const (
	ViewTable   = "table"
	ViewBalance = "balance"
	ViewDiff    = "diff"
)

// LoginForm is the body of POST /login.
type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required,max=150"`
	Password string `form:"password" json:"password" binding:"required,max=256" sanitize:"-"`
}

// SearchQuery filters the account list.
type SearchQuery struct {
	Search string `form:"search" binding:"max=100" sanitize:"-"`
}

// RangeQuery selects the history window of an account. A preset wins over
// explicit dates; with neither the window is today.
type RangeQuery struct {
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Preset string `form:"preset" binding:"omitempty,range_preset"`
	View   string `form:"view" binding:"omitempty,oneof=table balance diff"`
}

// Range resolves the query to whole days in loc. A missing bound defaults
// to the other one (or to today when both are missing).
func (q RangeQuery) Range(now time.Time, loc *time.Location) (domain.DateRange, error) {
	if q.Preset != "" {
		p, ok := domain.PresetByKey(q.Preset)
		if !ok {
			return domain.DateRange{}, fmt.Errorf("unknown range preset %q", q.Preset)
		}
		return p.Range(now, loc), nil
	}

	from, to := now, now
	var err error
	if q.From != "" {
		if from, err = time.ParseInLocation(DateLayout, q.From, loc); err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid from date: %w", err)
		}
		to = from
	}
	if q.To != "" {
		if to, err = time.ParseInLocation(DateLayout, q.To, loc); err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid to date: %w", err)
		}
		if q.From == "" {
			from = to
		}
	}

	r := domain.DayRange(from, to, loc)
	if err := r.Validate(); err != nil {
		return domain.DateRange{}, err
	}
	return r, nil
}

// ViewOrDefault returns the selected view, defaulting to the table.
func (q RangeQuery) ViewOrDefault() string {
	if q.View == "" {
		return ViewTable
	}
	return q.View
}

// SessionResponse is the body of GET /api/session.
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
