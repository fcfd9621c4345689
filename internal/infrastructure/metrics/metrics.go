package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Group metrics
	GroupsCreated  prometheus.Counter
	MembersAdded   prometheus.Counter
	MembersRemoved prometheus.Counter

	// Expense metrics
	ExpensesRecorded prometheus.Counter
	ExpenseAmount    prometheus.Histogram
	RemainderUnits   prometheus.Counter

	// Settlement metrics
	SettlementsRecorded prometheus.Counter
	SettlementAmount    prometheus.Histogram
	DuplicateReferences prometheus.Counter

	// Balance and simplification metrics
	BalanceCacheHits        prometheus.Counter
	BalanceCacheMisses      prometheus.Counter
	SimplificationTransfers prometheus.Histogram

	// Reconciliation metrics
	ReconcileRuns       *prometheus.CounterVec
	MirrorEventsApplied prometheus.Counter
	MirrorDiscrepancies prometheus.Gauge

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Group metrics
		GroupsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_groups_created_total",
			Help: "Total number of groups created",
		}),
		MembersAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_members_added_total",
			Help: "Total number of members added to groups",
		}),
		MembersRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_members_removed_total",
			Help: "Total number of members removed from groups",
		}),

		// Expense metrics
		ExpensesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_expenses_recorded_total",
			Help: "Total number of expenses recorded",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_expense_amount_units",
			Help:    "Expense amounts in base units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		RemainderUnits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_remainder_units_total",
			Help: "Total rounding remainder units reported by expense splits",
		}),

		// Settlement metrics
		SettlementsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_settlements_recorded_total",
			Help: "Total number of settlements recorded",
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_settlement_amount_units",
			Help:    "Settlement amounts in base units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		DuplicateReferences: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_duplicate_references_total",
			Help: "Total settlement submissions rejected for a reused external reference",
		}),

		// Balance and simplification metrics
		BalanceCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_balance_cache_hits_total",
			Help: "Balance snapshot cache hits",
		}),
		BalanceCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_balance_cache_misses_total",
			Help: "Balance snapshot cache misses",
		}),
		SimplificationTransfers: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_simplification_transfers",
			Help:    "Number of transfers in computed settlement plans",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		}),

		// Reconciliation metrics
		ReconcileRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_reconcile_runs_total",
				Help: "Total reconciliation runs by outcome",
			},
			[]string{"outcome"},
		),
		MirrorEventsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_mirror_events_applied_total",
			Help: "Mirror settlement events applied to the ledger during reconciliation",
		}),
		MirrorDiscrepancies: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gosettle_mirror_discrepancies",
			Help: "Balance discrepancies found by the latest reconciliation run",
		}),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_outbox_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gosettle_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gosettle_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
