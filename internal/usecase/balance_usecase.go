package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// BalanceUseCase derives balances and settlement plans from history.
// Nothing here writes: balances are recomputed from the expense and
// settlement logs on demand, with an optional snapshot cache keyed by
// the group version so an entry can never go stale.
type BalanceUseCase struct {
	groupRepo      GroupRepository
	expenseRepo    ExpenseRepository
	settlementRepo SettlementRepository
	cache          Cache
	metrics        *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil.
func NewBalanceUseCase(
	groupRepo GroupRepository,
	expenseRepo ExpenseRepository,
	settlementRepo SettlementRepository,
	cache Cache,
) *BalanceUseCase {
	return &BalanceUseCase{
		groupRepo:      groupRepo,
		expenseRepo:    expenseRepo,
		settlementRepo: settlementRepo,
		cache:          cache,
	}
}

// WithMetrics enables Prometheus instrumentation.
func (uc *BalanceUseCase) WithMetrics(m *metrics.Metrics) *BalanceUseCase {
	uc.metrics = m
	return uc
}

// GroupBalances is a full balance sheet for one group at one version.
type GroupBalances struct {
	GroupID  string                 `json:"group_id"`
	Version  int64                  `json:"version"`
	Balances []domain.MemberBalance `json:"balances"`
}

func balanceSnapshotKey(groupID string, version int64) string {
	return fmt.Sprintf("balances:%s:%d", groupID, version)
}

// GetGroupBalances returns every member's net balance in roster order.
func (uc *BalanceUseCase) GetGroupBalances(ctx context.Context, groupID string) (*GroupBalances, error) {
	group, balances, err := uc.loadBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &GroupBalances{
		GroupID:  group.ID,
		Version:  group.Version,
		Balances: domain.OrderBalances(group.Members, balances),
	}, nil
}

// GetMemberBalance returns one member's net balance.
func (uc *BalanceUseCase) GetMemberBalance(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error) {
	group, balances, err := uc.loadBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(member) {
		return nil, domain.ErrNotAGroupMember
	}
	return &domain.MemberBalance{Member: member, Balance: balances[member]}, nil
}

// SimplifyDebts derives the group's minimal transfer plan. The plan is
// advisory and never persisted; repaying against it goes through
// settlement recording like any other repayment.
func (uc *BalanceUseCase) SimplifyDebts(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error) {
	group, balances, err := uc.loadBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	plan := domain.SimplifyDebts(group.Members, balances)
	if uc.metrics != nil {
		uc.metrics.SimplificationTransfers.Observe(float64(len(plan)))
	}
	return plan, nil
}

// loadBalances folds the group history, going through the snapshot
// cache when one is configured. Cache failures fall back to the fold;
// they are never surfaced.
func (uc *BalanceUseCase) loadBalances(ctx context.Context, groupID string) (*domain.Group, map[domain.Address]domain.Money, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	key := balanceSnapshotKey(group.ID, group.Version)
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil && raw != nil {
			var snapshot []domain.MemberBalance
			if err := json.Unmarshal(raw, &snapshot); err == nil {
				if uc.metrics != nil {
					uc.metrics.BalanceCacheHits.Inc()
				}
				balances := make(map[domain.Address]domain.Money, len(snapshot))
				for _, mb := range snapshot {
					balances[mb.Member] = mb.Balance
				}
				return group, balances, nil
			}
		}
		if uc.metrics != nil {
			uc.metrics.BalanceCacheMisses.Inc()
		}
	}

	expenses, err := uc.expenseRepo.ListAllByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := uc.settlementRepo.ListAllByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	balances := domain.ComputeBalances(group.Members, expenses, settlements)

	if uc.cache != nil {
		if raw, err := json.Marshal(domain.OrderBalances(group.Members, balances)); err == nil {
			_ = uc.cache.Set(ctx, key, raw, BalanceSnapshotTTL)
		}
	}

	return group, balances, nil
}
