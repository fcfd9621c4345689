package domain

import "time"

// Expense represents a shared cost paid by one member on behalf of a set
// of participants. The participant list may include the payer.
type Expense struct {
	ID           string
	GroupID      string
	Payer        Address
	Amount       Money
	Participants []Address
	Description  string
	CreatedAt    time.Time
}

// Validate validates an expense request. Membership of the payer and
// participants is checked against the group by the caller.
func (e *Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if len(e.Participants) == 0 {
		return ErrEmptyParticipants
	}
	seen := make(map[Address]bool, len(e.Participants))
	for _, p := range e.Participants {
		if seen[p] {
			return ErrDuplicateParticipant
		}
		seen[p] = true
	}
	return ValidateDescription(e.Description)
}

// Share returns the amount owed by each participant: the floor of
// amount divided by the participant count.
func (e *Expense) Share() Money {
	return e.Amount.DivCount(len(e.Participants))
}

// Remainder returns the base units dropped by the floor division, at
// most participants-1. The remainder never enters any balance; it is a
// documented rounding loss surfaced to callers and metrics.
func (e *Expense) Remainder() Money {
	return e.Amount.ModCount(len(e.Participants))
}
