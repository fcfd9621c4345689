package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// BalanceSnapshotTTL bounds how long a version-scoped balance
	// snapshot stays cached. Snapshots are immutable per key, so the
	// TTL only controls memory, not staleness.
	BalanceSnapshotTTL = 15 * time.Minute

	// MirrorCursorTTL is how long the per-group replay cursor is kept.
	// Losing the cursor only causes a harmless full replay.
	MirrorCursorTTL = 7 * 24 * time.Hour

	// ReconcileBatchSize is how many mirror events one replay pass
	// fetches per gateway call.
	ReconcileBatchSize = 100
)
