package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Account is a named balance-holding entity owned by the backend. The
// dashboard never mutates it, it only re-fetches.
type Account struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	CurrentBalance    float64   `json:"current_balance"`
	LastBalanceUpdate time.Time `json:"last_balance_update"`
	IsActive          bool      `json:"is_active"`
	IsBalanceFixed    bool      `json:"is_balance_fixed"`
}

// accountWire is the backend representation. Older backends send the
// balance under "balance" instead of "current_balance".
type accountWire struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	CurrentBalance    *float64 `json:"current_balance"`
	Balance           *float64 `json:"balance"`
	LastBalanceUpdate string   `json:"last_balance_update"`
	IsActive          *bool    `json:"is_active"`
	IsBalanceFixed    bool     `json:"is_balance_fixed"`
}

// UnmarshalJSON decodes the backend account shape.
func (a *Account) UnmarshalJSON(data []byte) error {
	var w accountWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	updated, err := ParseTimestamp(w.LastBalanceUpdate)
	if err != nil {
		return fmt.Errorf("account %s: last_balance_update: %w", w.ID, err)
	}

	*a = Account{
		ID:                w.ID,
		Name:              w.Name,
		LastBalanceUpdate: updated,
		IsActive:          true,
		IsBalanceFixed:    w.IsBalanceFixed,
	}
	switch {
	case w.CurrentBalance != nil:
		a.CurrentBalance = *w.CurrentBalance
	case w.Balance != nil:
		a.CurrentBalance = *w.Balance
	}
	if w.IsActive != nil {
		a.IsActive = *w.IsActive
	}
	return nil
}
