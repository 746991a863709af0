package view

import (
	"math"

	"balance-dashboard/internal/core/domain"
)

// reconcileTolerance absorbs float rounding of the backend's balances.
const reconcileTolerance = 0.005

// Mismatch is a change whose recorded balance does not equal the previous
// balance plus its own balance_diff.
type Mismatch struct {
	ChangeID string  `json:"change_id"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
}

// Reconcile replays balance_diff in created_at order, anchored at the
// earliest loaded event, and reports every event that breaks the running
// balance. It only reports: the loaded data is never altered or rejected.
func Reconcile(changes []domain.BalanceChange) []Mismatch {
	sorted := sortOldestFirst(changes)

	var mismatches []Mismatch
	for i := 1; i < len(sorted); i++ {
		expected := sorted[i-1].Balance + sorted[i].BalanceDiff
		if math.Abs(expected-sorted[i].Balance) > reconcileTolerance {
			mismatches = append(mismatches, Mismatch{
				ChangeID: sorted[i].ID,
				Expected: expected,
				Actual:   sorted[i].Balance,
			})
		}
	}
	return mismatches
}
