package postgres

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
	"github.com/iho/gosettle/internal/usecase"
)

// GroupRepository implements usecase.GroupRepository.
type GroupRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create creates a group together with its roster.
func (r *GroupRepository) Create(ctx context.Context, tx usecase.Transaction, group *domain.Group) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateGroup(ctx, generated.CreateGroupParams{
		ID:        group.ID,
		Name:      group.Name,
		Creator:   group.Creator.String(),
		Version:   group.Version,
		CreatedAt: timeToPgTimestamptz(group.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(group.UpdatedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrGroupExists
		}

		return err
	}

	for _, member := range group.Members {
		err := queries.AddGroupMember(ctx, generated.AddGroupMemberParams{
			GroupID:  group.ID,
			Member:   member.String(),
			JoinedAt: timeToPgTimestamptz(group.CreatedAt),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a group with its roster in insertion order.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	row, err := r.queries.GetGroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}

		return nil, err
	}

	members, err := r.queries.ListGroupMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	return rowToGroup(row, members)
}

// GetByIDForUpdate retrieves a group with a FOR UPDATE lock on the
// group row. The lock is the per-group write serialization point.
func (r *GroupRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Group, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetGroupByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}

		return nil, err
	}

	members, err := queries.ListGroupMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	return rowToGroup(row, members)
}

// List lists groups with pagination.
func (r *GroupRepository) List(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	rows, err := r.queries.ListGroups(ctx, generated.ListGroupsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*domain.Group{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	memberRows, err := r.queries.ListGroupMembersForGroups(ctx, ids)
	if err != nil {
		return nil, err
	}

	membersByGroup := make(map[string][]string, len(rows))
	for _, m := range memberRows {
		membersByGroup[m.GroupID] = append(membersByGroup[m.GroupID], m.Member)
	}

	groups := make([]*domain.Group, 0, len(rows))
	for _, row := range rows {
		group, err := rowToGroup(row, membersByGroup[row.ID])
		if err != nil {
			return nil, err
		}

		groups = append(groups, group)
	}

	return groups, nil
}

// AddMember appends a member to the roster.
func (r *GroupRepository) AddMember(ctx context.Context, tx usecase.Transaction, groupID string, member domain.Address, joinedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.AddGroupMember(ctx, generated.AddGroupMemberParams{
		GroupID:  groupID,
		Member:   member.String(),
		JoinedAt: timeToPgTimestamptz(joinedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrMemberExists
	}

	return err
}

// RemoveMember drops a member from the roster.
func (r *GroupRepository) RemoveMember(ctx context.Context, tx usecase.Transaction, groupID string, member domain.Address) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.RemoveGroupMember(ctx, generated.RemoveGroupMemberParams{
		GroupID: groupID,
		Member:  member.String(),
	})
}

// BumpVersion increments the group version and returns the new value.
func (r *GroupRepository) BumpVersion(ctx context.Context, tx usecase.Transaction, groupID string, updatedAt time.Time) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	version, err := queries.BumpGroupVersion(ctx, generated.BumpGroupVersionParams{
		ID:        groupID,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrGroupNotFound
		}

		return 0, err
	}

	return version, nil
}

// MemberHasHistory reports whether the member appears in any recorded
// expense or settlement of the group.
func (r *GroupRepository) MemberHasHistory(ctx context.Context, groupID string, member domain.Address) (bool, error) {
	return r.queries.MemberHasHistory(ctx, generated.MemberHasHistoryParams{
		GroupID: groupID,
		Payer:   member.String(),
	})
}

func rowToGroup(row generated.Group, members []string) (*domain.Group, error) {
	creator, err := domain.ParseAddress(row.Creator)
	if err != nil {
		return nil, err
	}

	roster := make([]domain.Address, 0, len(members))
	for _, m := range members {
		addr, err := domain.ParseAddress(m)
		if err != nil {
			return nil, err
		}

		roster = append(roster, addr)
	}

	return &domain.Group{
		ID:        row.ID,
		Name:      row.Name,
		Creator:   creator,
		Members:   roster,
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

// Type conversion helpers.
func moneyToNumeric(m domain.Money) pgtype.Numeric {
	return pgtype.Numeric{Int: m.BigInt(), Exp: 0, Valid: true}
}

func numericToMoney(n pgtype.Numeric) domain.Money {
	if !n.Valid || n.Int == nil {
		return domain.Money{}
	}

	v := new(big.Int).Set(n.Int)
	if n.Exp > 0 {
		v.Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n.Exp)), nil))
	}

	return domain.MoneyFromBig(v)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
