package chainwatch

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// Watcher sweeps every group on a timer and replays unseen mirror
// settlement events into the advisory ledger. On-demand reconciliation
// stays available over HTTP; the watcher bounds how long the two sides
// can drift apart without an operator asking.
type Watcher struct {
	reconciler Reconciler
	groupRepo  usecase.GroupRepository
	logger     zerolog.Logger
	interval   time.Duration
	pageSize   int
}

// Reconciler replays mirror events for one group and reports drift.
type Reconciler interface {
	ReconcileGroup(ctx context.Context, groupID string) (*domain.ReconciliationReport, error)
}

// Config for Watcher.
type Config struct {
	Reconciler Reconciler
	GroupRepo  usecase.GroupRepository
	Logger     zerolog.Logger
	Interval   time.Duration // Sweep interval
	PageSize   int           // Groups fetched per page during a sweep
}

// NewWatcher creates a new Watcher.
func NewWatcher(cfg Config) *Watcher {
	if cfg.Interval == 0 {
		cfg.Interval = time.Minute
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 50
	}

	return &Watcher{
		reconciler: cfg.Reconciler,
		groupRepo:  cfg.GroupRepo,
		logger:     cfg.Logger,
		interval:   cfg.Interval,
		pageSize:   cfg.PageSize,
	}
}

// Start begins the reconciliation sweep worker.
// It runs continuously until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info().
		Dur("interval", w.interval).
		Int("page_size", w.pageSize).
		Msg("chain watcher started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("chain watcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				w.logger.Error().Err(err).Msg("reconciliation sweep failed")
			}
		}
	}
}

// sweep pages through all groups and reconciles each one. A failure on
// one group is logged and the sweep moves on; the next tick retries.
func (w *Watcher) sweep(ctx context.Context) error {
	offset := 0
	for {
		groups, err := w.groupRepo.List(ctx, w.pageSize, offset)
		if err != nil {
			return err
		}

		for _, group := range groups {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			report, err := w.reconciler.ReconcileGroup(ctx, group.ID)
			if err != nil {
				// The watcher listed the group a moment ago, so a
				// not-found here means the mirror has no record of it
				// yet. Nothing to replay until someone funds it.
				if errors.Is(err, domain.ErrGroupNotFound) {
					w.logger.Debug().
						Str("group_id", group.ID).
						Msg("group not mirrored yet")
					continue
				}
				w.logger.Error().
					Err(err).
					Str("group_id", group.ID).
					Msg("group reconciliation failed")
				continue
			}

			if !report.InSync {
				w.logger.Warn().
					Str("group_id", group.ID).
					Int("discrepancies", len(report.Discrepancies)).
					Int("events_applied", report.Applied).
					Msg("mirror drift detected")
				continue
			}

			w.logger.Debug().
				Str("group_id", group.ID).
				Int("events_seen", report.EventsSeen).
				Int("events_applied", report.Applied).
				Msg("group reconciled")
		}

		if len(groups) < w.pageSize {
			return nil
		}
		offset += len(groups)
	}
}
