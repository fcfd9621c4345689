package domain

import "time"

// DiscrepancyType classifies a ledger/mirror mismatch.
type DiscrepancyType string

const (
	DiscrepancyBalanceDrift  DiscrepancyType = "BALANCE_DRIFT"
	DiscrepancyUnknownMember DiscrepancyType = "UNKNOWN_MEMBER"
	DiscrepancyOpenLedger    DiscrepancyType = "OPEN_LEDGER"
)

// Severity grades a discrepancy for triage.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Discrepancy is one finding from a reconciliation run: a member whose
// advisory balance disagrees with the mirror, a member only one side
// knows about, or a balance set that fails the closed-sum check.
type Discrepancy struct {
	Type          DiscrepancyType `json:"type"`
	Member        string          `json:"member,omitempty"`
	LedgerBalance string          `json:"ledger_balance"`
	MirrorBalance string          `json:"mirror_balance"`
	Delta         string          `json:"delta"`
	Severity      Severity        `json:"severity"`
	Description   string          `json:"description"`
}

// ReconciliationReport summarizes one replay-and-compare pass for a
// group: how many mirror events were applied, how many had already been
// recorded, and any remaining balance discrepancies.
type ReconciliationReport struct {
	GroupID        string        `json:"group_id"`
	CheckedAt      time.Time     `json:"checked_at"`
	EventsSeen     int           `json:"events_seen"`
	Applied        int           `json:"applied"`
	AlreadyApplied int           `json:"already_applied"`
	Discrepancies  []Discrepancy `json:"discrepancies"`
	InSync         bool          `json:"in_sync"`
}
