package ports

import (
	"context"
	"net/http"
	"time"

	"balance-dashboard/internal/core/domain"
	"balance-dashboard/internal/core/view"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Navigator moves the user to the login view. The backend client calls it
// once per 401 after the session has been cleared.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// BackendClient is the typed, session-aware surface of the accounts backend.
type BackendClient interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	// GetBalanceChanges returns the history of one account within [from, to].
	// Both bounds are required; results are not filtered client-side.
	GetBalanceChanges(ctx context.Context, accountID string, from, to time.Time) ([]domain.BalanceChange, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.Token, error)
	Register(ctx context.Context, creds domain.Credentials) (*domain.Token, error)
}

// AuthService drives login, registration and logout for a front end.
type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) error
	Register(ctx context.Context, creds domain.Credentials) error
	Logout(ctx context.Context) error
	// Restore loads the persisted token into the session. It reports whether a
	// token was found.
	Restore(ctx context.Context) (bool, error)
}

// DashboardService assembles the account list and account detail views.
type DashboardService interface {
	Overview(ctx context.Context, search string) (*Overview, error)
	AccountDetail(ctx context.Context, accountID string, r domain.DateRange) (*AccountDetail, error)
}

// Overview is the account list view.
type Overview struct {
	Search string        `json:"search"`
	Cards  []AccountCard `json:"accounts"`
}

// AccountCard is one account of the list with its trailing-24h indicator.
// When the indicator could not be loaded Err holds the message and Change24h
// is meaningless.
type AccountCard struct {
	Account   domain.Account `json:"account"`
	Change24h float64        `json:"change_24h"`
	Delta     string         `json:"delta"`
	Tone      view.Tone      `json:"tone"`
	Err       string         `json:"error,omitempty"`
}

// AccountDetail is the single-account view for one date range.
type AccountDetail struct {
	Account       domain.Account         `json:"account"`
	From          time.Time              `json:"from"`
	To            time.Time              `json:"to"`
	Changes       []domain.BalanceChange `json:"changes"` // newest first
	Total         float64                `json:"total"`
	TotalTone     view.Tone              `json:"total_tone"`
	BalanceSeries []view.Point           `json:"balance_series"`
	DiffSeries    []view.Point           `json:"diff_series"`
	Mismatches    []view.Mismatch        `json:"mismatches,omitempty"`
}
