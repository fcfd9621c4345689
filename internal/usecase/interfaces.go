package usecase

import (
	"context"
	"time"

	"github.com/iho/gosettle/internal/domain"
)

// GroupRepository defines data access for groups and their rosters.
type GroupRepository interface {
	Create(ctx context.Context, tx Transaction, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Group, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Group, error)
	AddMember(ctx context.Context, tx Transaction, groupID string, member domain.Address, joinedAt time.Time) error
	RemoveMember(ctx context.Context, tx Transaction, groupID string, member domain.Address) error
	// BumpVersion advances the group's version counter inside the
	// write transaction, serializing concurrent writers per group and
	// keying the balance snapshot cache.
	BumpVersion(ctx context.Context, tx Transaction, groupID string, updatedAt time.Time) (int64, error)
	// MemberHasHistory reports whether the member appears in any
	// recorded expense or settlement of the group.
	MemberHasHistory(ctx context.Context, groupID string, member domain.Address) (bool, error)
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Expense, error)
	// ListAllByGroup returns the group's complete expense history in
	// recording order, for balance folds.
	ListAllByGroup(ctx context.Context, groupID string) ([]*domain.Expense, error)
}

// SettlementRepository defines data access for settlements.
type SettlementRepository interface {
	// Create inserts a settlement. A duplicate external reference
	// surfaces as domain.ErrDuplicateReference via the unique index;
	// callers never pre-check.
	Create(ctx context.Context, tx Transaction, settlement *domain.Settlement) error
	GetByID(ctx context.Context, id string) (*domain.Settlement, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Settlement, error)
	ListAllByGroup(ctx context.Context, groupID string) ([]*domain.Settlement, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// ChainGateway reads the value-authoritative mirror contract.
type ChainGateway interface {
	// SettlementEvents returns mirror settlement events with sequence
	// numbers greater than afterSeq, oldest first.
	SettlementEvents(ctx context.Context, groupID string, afterSeq uint64, limit int) ([]domain.MirrorSettlement, error)
	// GroupBalances returns the mirror's signed balance per member.
	GroupBalances(ctx context.Context, groupID string) (map[domain.Address]domain.Money, error)
}

// SettlementRecorder records settlements; reconciliation replays mirror
// events through it so replayed and API-recorded settlements share one
// code path.
type SettlementRecorder interface {
	RecordSettlement(ctx context.Context, input RecordSettlementInput) (*domain.Settlement, error)
}

// Retrier re-runs an operation on transient database failures such as
// deadlocks and serialization conflicts. Domain errors pass through
// unretried.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
