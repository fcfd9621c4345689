package usecase

import (
	"context"
	"time"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// ExpenseUseCase handles expense recording business logic.
type ExpenseUseCase struct {
	txManager   TransactionManager
	groupRepo   GroupRepository
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// WithRetrier re-runs the write transaction on deadlocks and
// serialization failures.
func (uc *ExpenseUseCase) WithRetrier(retrier Retrier) *ExpenseUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *ExpenseUseCase) WithMetrics(m *metrics.Metrics) *ExpenseUseCase {
	uc.metrics = m
	return uc
}

func (uc *ExpenseUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// RecordExpenseInput represents input for recording an expense.
type RecordExpenseInput struct {
	GroupID      string
	Payer        domain.Address
	Amount       domain.Money
	Participants []domain.Address
	Description  string
}

// RecordExpenseResult carries the stored expense together with the
// per-participant share and the rounding remainder the floor division
// dropped. The remainder is reported, never redistributed.
type RecordExpenseResult struct {
	Expense   *domain.Expense
	Share     domain.Money
	Remainder domain.Money
}

// RecordExpense appends an expense to the group's history. Balances are
// not stored anywhere; recording only persists the fact and bumps the
// group version.
func (uc *ExpenseUseCase) RecordExpense(ctx context.Context, input RecordExpenseInput) (*RecordExpenseResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	group, err := uc.groupRepo.GetByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(input.Payer) {
		return nil, domain.ErrNotAGroupMember
	}
	for _, p := range input.Participants {
		if !group.HasMember(p) {
			return nil, domain.ErrNotAGroupMember
		}
	}

	now := time.Now().UTC()
	expense := &domain.Expense{
		ID:           uc.idGen.Generate(),
		GroupID:      input.GroupID,
		Payer:        input.Payer,
		Amount:       input.Amount,
		Participants: input.Participants,
		Description:  input.Description,
		CreatedAt:    now,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	share := expense.Share()
	remainder := expense.Remainder()

	err = uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		// The version bump serializes writers per group and rolls the
		// balance snapshot cache over to a fresh key.
		if _, err := uc.groupRepo.BumpVersion(txCtx, tx, input.GroupID, now); err != nil {
			return err
		}

		if err := uc.expenseRepo.Create(txCtx, tx, expense); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseRecorded,
			Payload: map[string]any{
				"expense_id":   expense.ID,
				"group_id":     expense.GroupID,
				"payer":        expense.Payer.String(),
				"amount":       expense.Amount.String(),
				"share":        share.String(),
				"remainder":    remainder.String(),
				"participants": len(expense.Participants),
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesRecorded.Inc()
		uc.metrics.ExpenseAmount.Observe(expense.Amount.Decimal(0).InexactFloat64())
		uc.metrics.RemainderUnits.Add(remainder.Decimal(0).InexactFloat64())
	}

	return &RecordExpenseResult{Expense: expense, Share: share, Remainder: remainder}, nil
}

// GetExpense retrieves an expense by ID.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return uc.expenseRepo.GetByID(ctx, id)
}

// ListExpensesInput represents input for listing a group's expenses.
type ListExpensesInput struct {
	GroupID string
	Limit   int
	Offset  int
}

// ListExpenses lists a group's expenses with pagination.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*domain.Expense, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.expenseRepo.ListByGroup(ctx, input.GroupID, input.Limit, input.Offset)
}
