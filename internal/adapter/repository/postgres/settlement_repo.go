package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
	"github.com/iho/gosettle/internal/usecase"
)

// SettlementRepository implements usecase.SettlementRepository.
type SettlementRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a settlement inside the transaction. A reused external
// reference comes back from the unique index as ErrDuplicateReference.
func (r *SettlementRepository) Create(ctx context.Context, tx usecase.Transaction, settlement *domain.Settlement) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateSettlement(ctx, generated.CreateSettlementParams{
		ID:          settlement.ID,
		GroupID:     settlement.GroupID,
		FromMember:  settlement.From.String(),
		ToMember:    settlement.To.String(),
		Amount:      moneyToNumeric(settlement.Amount),
		ExternalRef: settlement.ExternalRef,
		CreatedAt:   timeToPgTimestamptz(settlement.CreatedAt),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_settlements_external_ref" {
			return domain.ErrDuplicateReference
		}

		return err
	}

	return nil
}

// GetByID retrieves a settlement by ID.
func (r *SettlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	row, err := r.queries.GetSettlementByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}

		return nil, err
	}

	return rowToSettlement(row)
}

// ListByGroup lists a page of the group's settlements, newest first.
func (r *SettlementRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Settlement, error) {
	rows, err := r.queries.ListSettlementsByGroup(ctx, generated.ListSettlementsByGroupParams{
		GroupID: groupID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	settlements := make([]*domain.Settlement, 0, len(rows))
	for _, row := range rows {
		settlement, err := rowToSettlement(row)
		if err != nil {
			return nil, err
		}

		settlements = append(settlements, settlement)
	}

	return settlements, nil
}

// ListAllByGroup returns every settlement of the group in recording order.
func (r *SettlementRepository) ListAllByGroup(ctx context.Context, groupID string) ([]*domain.Settlement, error) {
	rows, err := r.queries.ListAllSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	settlements := make([]*domain.Settlement, 0, len(rows))
	for _, row := range rows {
		settlement, err := rowToSettlement(row)
		if err != nil {
			return nil, err
		}

		settlements = append(settlements, settlement)
	}

	return settlements, nil
}

func rowToSettlement(row generated.Settlement) (*domain.Settlement, error) {
	from, err := domain.ParseAddress(row.FromMember)
	if err != nil {
		return nil, err
	}

	to, err := domain.ParseAddress(row.ToMember)
	if err != nil {
		return nil, err
	}

	return &domain.Settlement{
		ID:          row.ID,
		GroupID:     row.GroupID,
		From:        from,
		To:          to,
		Amount:      numericToMoney(row.Amount),
		ExternalRef: row.ExternalRef,
		CreatedAt:   row.CreatedAt.Time,
	}, nil
}
