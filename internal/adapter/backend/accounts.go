package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"balance-dashboard/internal/core/domain"
	"balance-dashboard/pkg/apperror"
)

// ListAccounts fetches every account visible to the signed-in user.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return doJSON[[]domain.Account](ctx, c, Request{Method: http.MethodGet, Path: "/accounts"})
}

// GetBalanceChanges fetches the changes of accountID recorded within
// [from, to]. Filtering is left to the backend.
func (c *Client) GetBalanceChanges(ctx context.Context, accountID string, from, to time.Time) ([]domain.BalanceChange, error) {
	if accountID == "" {
		return nil, apperror.Validation("account id is required")
	}
	if err := (domain.DateRange{From: from, To: to}).Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	query := url.Values{}
	query.Set("date_from", domain.FormatWireTime(from))
	query.Set("date_to", domain.FormatWireTime(to))

	return doJSON[[]domain.BalanceChange](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/balance_change/" + url.PathEscape(accountID),
		Query:  query,
	})
}
