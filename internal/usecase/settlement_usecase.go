package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// SettlementUseCase handles settlement recording business logic.
type SettlementUseCase struct {
	txManager      TransactionManager
	groupRepo      GroupRepository
	settlementRepo SettlementRepository
	outboxRepo     OutboxRepository
	idGen          IDGenerator
	retrier        Retrier
	metrics        *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	settlementRepo SettlementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:      txManager,
		groupRepo:      groupRepo,
		settlementRepo: settlementRepo,
		outboxRepo:     outboxRepo,
		idGen:          idGen,
	}
}

// WithRetrier re-runs the write transaction on deadlocks and
// serialization failures. ErrDuplicateReference is never retried; the
// retrier treats it as permanent.
func (uc *SettlementUseCase) WithRetrier(retrier Retrier) *SettlementUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *SettlementUseCase) WithMetrics(m *metrics.Metrics) *SettlementUseCase {
	uc.metrics = m
	return uc
}

func (uc *SettlementUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// RecordSettlementInput represents input for recording a settlement.
// ExternalRef is set when the payment happened on the mirror contract
// and nil for manually keyed repayments.
type RecordSettlementInput struct {
	GroupID     string
	From        domain.Address
	To          domain.Address
	Amount      domain.Money
	ExternalRef *string
}

// RecordSettlement appends a repayment to the group's history. Replays
// of the same external reference fail with ErrDuplicateReference from
// the storage unique index; there is no pre-check and no lock around
// the reference.
func (uc *SettlementUseCase) RecordSettlement(ctx context.Context, input RecordSettlementInput) (*domain.Settlement, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	group, err := uc.groupRepo.GetByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(input.From) || !group.HasMember(input.To) {
		return nil, domain.ErrNotAGroupMember
	}

	now := time.Now().UTC()
	settlement := &domain.Settlement{
		ID:          uc.idGen.Generate(),
		GroupID:     input.GroupID,
		From:        input.From,
		To:          input.To,
		Amount:      input.Amount,
		ExternalRef: input.ExternalRef,
		CreatedAt:   now,
	}
	if err := settlement.Validate(); err != nil {
		return nil, err
	}

	err = uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if _, err := uc.groupRepo.BumpVersion(txCtx, tx, input.GroupID, now); err != nil {
			return err
		}

		if err := uc.settlementRepo.Create(txCtx, tx, settlement); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   settlement.ID,
			AggregateType: domain.AggregateTypeSettlement,
			EventType:     domain.EventTypeSettlementRecorded,
			Payload: map[string]any{
				"settlement_id": settlement.ID,
				"group_id":      settlement.GroupID,
				"from":          settlement.From.String(),
				"to":            settlement.To.String(),
				"amount":        settlement.Amount.String(),
			},
			CreatedAt: now,
			Published: false,
		}
		if settlement.ExternalRef != nil {
			event.Payload["external_ref"] = *settlement.ExternalRef
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		if uc.metrics != nil && errors.Is(err, domain.ErrDuplicateReference) {
			uc.metrics.DuplicateReferences.Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsRecorded.Inc()
		uc.metrics.SettlementAmount.Observe(settlement.Amount.Decimal(0).InexactFloat64())
	}

	return settlement, nil
}

// GetSettlement retrieves a settlement by ID.
func (uc *SettlementUseCase) GetSettlement(ctx context.Context, id string) (*domain.Settlement, error) {
	return uc.settlementRepo.GetByID(ctx, id)
}

// ListSettlementsInput represents input for listing a group's settlements.
type ListSettlementsInput struct {
	GroupID string
	Limit   int
	Offset  int
}

// ListSettlements lists a group's settlements with pagination.
func (uc *SettlementUseCase) ListSettlements(ctx context.Context, input ListSettlementsInput) ([]*domain.Settlement, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.settlementRepo.ListByGroup(ctx, input.GroupID, input.Limit, input.Offset)
}
