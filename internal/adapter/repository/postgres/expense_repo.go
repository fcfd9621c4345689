package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
	"github.com/iho/gosettle/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts an expense inside the transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	participants := make([]string, 0, len(expense.Participants))
	for _, p := range expense.Participants {
		participants = append(participants, p.String())
	}

	_, err := queries.CreateExpense(ctx, generated.CreateExpenseParams{
		ID:           expense.ID,
		GroupID:      expense.GroupID,
		Payer:        expense.Payer.String(),
		Amount:       moneyToNumeric(expense.Amount),
		Description:  expense.Description,
		Participants: participants,
		CreatedAt:    timeToPgTimestamptz(expense.CreatedAt),
	})

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	row, err := r.queries.GetExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	return rowToExpense(row)
}

// ListByGroup lists a page of the group's expenses, newest first.
func (r *ExpenseRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Expense, error) {
	rows, err := r.queries.ListExpensesByGroup(ctx, generated.ListExpensesByGroupParams{
		GroupID: groupID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	expenses := make([]*domain.Expense, 0, len(rows))
	for _, row := range rows {
		expense, err := rowToExpense(row)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, expense)
	}

	return expenses, nil
}

// ListAllByGroup returns every expense of the group in recording order.
func (r *ExpenseRepository) ListAllByGroup(ctx context.Context, groupID string) ([]*domain.Expense, error) {
	rows, err := r.queries.ListAllExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses := make([]*domain.Expense, 0, len(rows))
	for _, row := range rows {
		expense, err := rowToExpense(row)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, expense)
	}

	return expenses, nil
}

func rowToExpense(row generated.Expense) (*domain.Expense, error) {
	payer, err := domain.ParseAddress(row.Payer)
	if err != nil {
		return nil, err
	}

	participants := make([]domain.Address, 0, len(row.Participants))
	for _, p := range row.Participants {
		addr, err := domain.ParseAddress(p)
		if err != nil {
			return nil, err
		}

		participants = append(participants, addr)
	}

	return &domain.Expense{
		ID:           row.ID,
		GroupID:      row.GroupID,
		Payer:        payer,
		Amount:       numericToMoney(row.Amount),
		Description:  row.Description,
		Participants: participants,
		CreatedAt:    row.CreatedAt.Time,
	}, nil
}
