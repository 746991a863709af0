package view

import (
	"strings"

	"balance-dashboard/internal/core/domain"
)

// FilterAccounts keeps accounts whose name contains search, ignoring case.
// An empty search returns accounts as is; order is always preserved.
func FilterAccounts(accounts []domain.Account, search string) []domain.Account {
	if search == "" {
		return accounts
	}

	needle := strings.ToLower(search)
	filtered := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		if strings.Contains(strings.ToLower(acc.Name), needle) {
			filtered = append(filtered, acc)
		}
	}
	return filtered
}
