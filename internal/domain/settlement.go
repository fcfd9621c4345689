package domain

import "time"

// Settlement represents a repayment recorded in the ledger: From (the
// debtor) paid Amount to To (the creditor) outside the system. When the
// payment happened on the mirror contract, ExternalRef carries the
// mirror's transfer identifier and recording the same reference twice is
// rejected. Settlements entered manually have no reference.
type Settlement struct {
	ID          string
	GroupID     string
	From        Address
	To          Address
	Amount      Money
	ExternalRef *string
	CreatedAt   time.Time
}

// Validate validates a settlement request. Membership of both parties is
// checked against the group by the caller.
func (s *Settlement) Validate() error {
	if s.From == s.To {
		return ErrSelfSettlement
	}
	if !s.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// MirrorSettlement is a settlement event observed on the mirror
// contract, ordered by a per-group monotonic sequence number.
type MirrorSettlement struct {
	Seq        uint64
	Ref        string
	GroupID    string
	From       Address
	To         Address
	Amount     Money
	OccurredAt time.Time
}
