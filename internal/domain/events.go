package domain

import "time"

// Event types
const (
	EventTypeGroupCreated       = "group.created"
	EventTypeMemberAdded        = "member.added"
	EventTypeMemberRemoved      = "member.removed"
	EventTypeExpenseRecorded    = "expense.recorded"
	EventTypeSettlementRecorded = "settlement.recorded"
)

// Aggregate types
const (
	AggregateTypeGroup      = "group"
	AggregateTypeExpense    = "expense"
	AggregateTypeSettlement = "settlement"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// GroupCreatedEvent payload
type GroupCreatedEvent struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Creator string `json:"creator"`
	Members int    `json:"members"`
}

// MemberAddedEvent payload
type MemberAddedEvent struct {
	GroupID string `json:"group_id"`
	Member  string `json:"member"`
}

// MemberRemovedEvent payload
type MemberRemovedEvent struct {
	GroupID string `json:"group_id"`
	Member  string `json:"member"`
}

// ExpenseRecordedEvent payload
type ExpenseRecordedEvent struct {
	ExpenseID    string `json:"expense_id"`
	GroupID      string `json:"group_id"`
	Payer        string `json:"payer"`
	Amount       string `json:"amount"`
	Share        string `json:"share"`
	Remainder    string `json:"remainder"`
	Participants int    `json:"participants"`
}

// SettlementRecordedEvent payload
type SettlementRecordedEvent struct {
	SettlementID string  `json:"settlement_id"`
	GroupID      string  `json:"group_id"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	Amount       string  `json:"amount"`
	ExternalRef  *string `json:"external_ref,omitempty"`
}
