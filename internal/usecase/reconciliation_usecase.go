package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// ReconciliationUseCase replays mirror settlement events into the
// advisory ledger and compares the two balance sets. Replay is safe to
// run any number of times: every mirror event carries a unique ref, so
// a repeat insert fails with ErrDuplicateReference and is counted as
// already applied.
type ReconciliationUseCase struct {
	chain          ChainGateway
	recorder       SettlementRecorder
	groupRepo      GroupRepository
	expenseRepo    ExpenseRepository
	settlementRepo SettlementRepository
	cache          Cache
	metrics        *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case.
// cache holds the per-group replay cursor and may be nil.
func NewReconciliationUseCase(
	chain ChainGateway,
	recorder SettlementRecorder,
	groupRepo GroupRepository,
	expenseRepo ExpenseRepository,
	settlementRepo SettlementRepository,
	cache Cache,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		chain:          chain,
		recorder:       recorder,
		groupRepo:      groupRepo,
		expenseRepo:    expenseRepo,
		settlementRepo: settlementRepo,
		cache:          cache,
	}
}

// WithMetrics enables Prometheus instrumentation.
func (uc *ReconciliationUseCase) WithMetrics(m *metrics.Metrics) *ReconciliationUseCase {
	uc.metrics = m
	return uc
}

func mirrorCursorKey(groupID string) string {
	return "mirror:cursor:" + groupID
}

// ReconcileGroup replays any unseen mirror settlements into the ledger
// and reports balance discrepancies between the two sides.
func (uc *ReconciliationUseCase) ReconcileGroup(ctx context.Context, groupID string) (*domain.ReconciliationReport, error) {
	report, err := uc.reconcile(ctx, groupID)
	uc.observeRun(report, err)
	return report, err
}

func (uc *ReconciliationUseCase) observeRun(report *domain.ReconciliationReport, err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err != nil:
		uc.metrics.ReconcileRuns.WithLabelValues("error").Inc()
	case report.InSync:
		uc.metrics.ReconcileRuns.WithLabelValues("in_sync").Inc()
	default:
		uc.metrics.ReconcileRuns.WithLabelValues("drift").Inc()
	}
	if report != nil {
		uc.metrics.MirrorEventsApplied.Add(float64(report.Applied))
		uc.metrics.MirrorDiscrepancies.Set(float64(len(report.Discrepancies)))
	}
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, groupID string) (*domain.ReconciliationReport, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	report := &domain.ReconciliationReport{
		GroupID:   groupID,
		CheckedAt: time.Now().UTC(),
	}

	cursor := uc.loadCursor(ctx, groupID)
	for {
		events, err := uc.chain.SettlementEvents(ctx, groupID, cursor, ReconcileBatchSize)
		if err != nil {
			return nil, fmt.Errorf("fetch mirror events: %w", err)
		}
		if len(events) == 0 {
			break
		}

		for _, ev := range events {
			report.EventsSeen++
			ref := ev.Ref
			_, err := uc.recorder.RecordSettlement(ctx, RecordSettlementInput{
				GroupID:     groupID,
				From:        ev.From,
				To:          ev.To,
				Amount:      ev.Amount,
				ExternalRef: &ref,
			})
			switch {
			case err == nil:
				report.Applied++
			case errors.Is(err, domain.ErrDuplicateReference):
				report.AlreadyApplied++
			default:
				return nil, fmt.Errorf("replay settlement %s: %w", ev.Ref, err)
			}
			cursor = ev.Seq
		}

		uc.storeCursor(ctx, groupID, cursor)
		if len(events) < ReconcileBatchSize {
			break
		}
	}

	if err := uc.compareBalances(ctx, group, report); err != nil {
		return nil, err
	}

	report.InSync = len(report.Discrepancies) == 0
	return report, nil
}

func (uc *ReconciliationUseCase) compareBalances(ctx context.Context, group *domain.Group, report *domain.ReconciliationReport) error {
	expenses, err := uc.expenseRepo.ListAllByGroup(ctx, group.ID)
	if err != nil {
		return err
	}
	settlements, err := uc.settlementRepo.ListAllByGroup(ctx, group.ID)
	if err != nil {
		return err
	}
	ledger := domain.ComputeBalances(group.Members, expenses, settlements)

	mirror, err := uc.chain.GroupBalances(ctx, group.ID)
	if err != nil {
		return fmt.Errorf("fetch mirror balances: %w", err)
	}

	if sum := domain.BalanceSum(ledger); !sum.IsZero() {
		report.Discrepancies = append(report.Discrepancies, domain.Discrepancy{
			Type:          domain.DiscrepancyOpenLedger,
			LedgerBalance: sum.String(),
			MirrorBalance: "0",
			Delta:         sum.String(),
			Severity:      domain.SeverityCritical,
			Description:   "advisory balances do not sum to zero",
		})
	}

	for _, m := range group.Members {
		ledgerBalance := ledger[m]
		mirrorBalance, ok := mirror[m]
		if !ok {
			report.Discrepancies = append(report.Discrepancies, domain.Discrepancy{
				Type:          domain.DiscrepancyUnknownMember,
				Member:        m.String(),
				LedgerBalance: ledgerBalance.String(),
				MirrorBalance: "-",
				Delta:         ledgerBalance.String(),
				Severity:      domain.SeverityHigh,
				Description:   "member exists in the ledger but not on the mirror",
			})
			continue
		}
		if !ledgerBalance.Equal(mirrorBalance) {
			delta := ledgerBalance.Sub(mirrorBalance)
			report.Discrepancies = append(report.Discrepancies, domain.Discrepancy{
				Type:          domain.DiscrepancyBalanceDrift,
				Member:        m.String(),
				LedgerBalance: ledgerBalance.String(),
				MirrorBalance: mirrorBalance.String(),
				Delta:         delta.String(),
				Severity:      driftSeverity(delta),
				Description:   "advisory and mirror balances disagree",
			})
		}
	}

	known := make(map[domain.Address]bool, len(group.Members))
	for _, m := range group.Members {
		known[m] = true
	}
	for m, b := range mirror {
		if !known[m] {
			report.Discrepancies = append(report.Discrepancies, domain.Discrepancy{
				Type:          domain.DiscrepancyUnknownMember,
				Member:        m.String(),
				LedgerBalance: "-",
				MirrorBalance: b.String(),
				Delta:         b.String(),
				Severity:      domain.SeverityHigh,
				Description:   "member exists on the mirror but not in the ledger",
			})
		}
	}

	return nil
}

func driftSeverity(delta domain.Money) domain.Severity {
	// Small drift usually means a settlement still in flight; large
	// drift points at history one side never saw.
	threshold := domain.NewMoney(100)
	if delta.Abs().Cmp(threshold) <= 0 {
		return domain.SeverityLow
	}
	return domain.SeverityHigh
}

func (uc *ReconciliationUseCase) loadCursor(ctx context.Context, groupID string) uint64 {
	if uc.cache == nil {
		return 0
	}
	raw, err := uc.cache.Get(ctx, mirrorCursorKey(groupID))
	if err != nil || raw == nil {
		return 0
	}
	var cursor uint64
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return 0
	}
	return cursor
}

func (uc *ReconciliationUseCase) storeCursor(ctx context.Context, groupID string, cursor uint64) {
	if uc.cache == nil {
		return
	}
	raw := []byte(strconv.FormatUint(cursor, 10))
	_ = uc.cache.Set(ctx, mirrorCursorKey(groupID), raw, MirrorCursorTTL)
}
