// Package expense holds the expense domain model and the in-memory
// collection that backs the authenticated views.
package expense

import "time"

// Expense is one user-entered financial transaction. The ID is assigned
// by the remote API on creation and is immutable afterwards.
type Expense struct {
	ID          string
	Description string
	Amount      float64
	Date        time.Time
}

// Patch is a partial update for an expense. Nil fields are left unchanged;
// the ID can never be patched.
type Patch struct {
	Description *string
	Amount      *float64
	Date        *time.Time
}

func (p Patch) apply(e *Expense) {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
}
