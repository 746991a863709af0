package view

import (
	"slices"

	"balance-dashboard/internal/core/domain"
)

// SumDiffs totals balance_diff over changes. It backs both the trailing-24h
// indicator of an account card and the change-table footer.
func SumDiffs(changes []domain.BalanceChange) float64 {
	var sum float64
	for _, c := range changes {
		sum += c.BalanceDiff
	}
	return sum
}

// SortNewestFirst returns a copy of changes ordered by created_at descending.
// Events with equal timestamps keep their received order.
func SortNewestFirst(changes []domain.BalanceChange) []domain.BalanceChange {
	sorted := slices.Clone(changes)
	slices.SortStableFunc(sorted, func(a, b domain.BalanceChange) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}

// sortOldestFirst is the chronological order the charts and the
// reconciliation replay use.
func sortOldestFirst(changes []domain.BalanceChange) []domain.BalanceChange {
	sorted := slices.Clone(changes)
	slices.SortStableFunc(sorted, func(a, b domain.BalanceChange) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return sorted
}
