package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// BalanceChangeState describes the kind of event that altered an account.
type BalanceChangeState string

const (
	BalanceChangeStateLock     BalanceChangeState = "lock"
	BalanceChangeStateDeposit  BalanceChangeState = "deposit"
	BalanceChangeStateWithdraw BalanceChangeState = "withdraw"
	BalanceChangeStateUpdate   BalanceChangeState = "update"
	BalanceChangeStateShutdown BalanceChangeState = "shutdown"
)

var balanceChangeStateLabels = map[BalanceChangeState]string{
	BalanceChangeStateLock:     "Balance locked until next change",
	BalanceChangeStateDeposit:  "Money received",
	BalanceChangeStateWithdraw: "Money withdrawn",
	BalanceChangeStateUpdate:   "Balance updated",
	BalanceChangeStateShutdown: "Shutdown and balance update",
}

// Valid reports whether s is one of the known states.
func (s BalanceChangeState) Valid() bool {
	_, ok := balanceChangeStateLabels[s]
	return ok
}

// Label returns the human-readable description shown in the change table.
func (s BalanceChangeState) Label() string {
	if label, ok := balanceChangeStateLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsTransfer returns true for plain deposits and withdrawals, as opposed to
// adjustment events (lock, update, shutdown).
func (s BalanceChangeState) IsTransfer() bool {
	return s == BalanceChangeStateDeposit || s == BalanceChangeStateWithdraw
}

// BalanceChange is an immutable recorded event that altered, locked or shut
// down an account's balance.
type BalanceChange struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	AccountID   string             `json:"account_id"`
	State       BalanceChangeState `json:"state"`
	StateRaw    BalanceChangeState `json:"state_raw,omitempty"` // state as reported, before lock resolution
	Balance     float64            `json:"balance"`              // balance after the event
	BalanceDiff float64            `json:"balance_diff"`         // signed delta applied by the event
}

type balanceChangeWire struct {
	ID          string             `json:"id"`
	CreatedAt   string             `json:"created_at"`
	AccountID   string             `json:"account_id"`
	State       BalanceChangeState `json:"state"`
	StateRaw    BalanceChangeState `json:"state_raw"`
	Balance     float64            `json:"balance"`
	BalanceDiff float64            `json:"balance_diff"`
}

// UnmarshalJSON decodes the backend shape, accepting naive timestamps.
func (b *BalanceChange) UnmarshalJSON(data []byte) error {
	var w balanceChangeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	createdAt, err := ParseTimestamp(w.CreatedAt)
	if err != nil {
		return fmt.Errorf("balance change %s: created_at: %w", w.ID, err)
	}

	*b = BalanceChange{
		ID:          w.ID,
		CreatedAt:   createdAt,
		AccountID:   w.AccountID,
		State:       w.State,
		StateRaw:    w.StateRaw,
		Balance:     w.Balance,
		BalanceDiff: w.BalanceDiff,
	}
	return nil
}
