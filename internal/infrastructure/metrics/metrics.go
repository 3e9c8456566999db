package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerMetrics holds the ledger's Prometheus collectors.
type LedgerMetrics struct {
	// Placement and reconciliation
	LinesPlacedTotal   *prometheus.CounterVec
	UnitsCreatedTotal  *prometheus.CounterVec
	UnitsRemovedTotal  prometheus.Counter
	EditsRejectedTotal *prometheus.CounterVec
	LinesDeletedTotal  prometheus.Counter

	// Bulk ingestion
	UploadsTotal   *prometheus.CounterVec
	UploadRowCount prometheus.Histogram

	// Archival deletion
	ArchiveRunsTotal   *prometheus.CounterVec
	ArchivedUnitsTotal prometheus.Counter

	// Payments
	TransfersTotal *prometheus.CounterVec

	// Read side
	AggregationDuration *prometheus.HistogramVec
}

// NewLedgerMetrics registers the collectors on reg.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	factory := promauto.With(reg)
	return &LedgerMetrics{
		LinesPlacedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_lines_placed_total",
				Help: "Order lines placed, by category and direction",
			},
			[]string{"category", "direction", "source"},
		),
		UnitsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_allocation_units_created_total",
				Help: "Allocation units created",
			},
			[]string{"source"},
		),
		UnitsRemovedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_allocation_units_removed_total",
				Help: "Unfilled allocation units removed by quantity reductions",
			},
		),
		EditsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_edits_rejected_total",
				Help: "Edits refused by the reconciliation guard or validation",
			},
			[]string{"reason"},
		),
		LinesDeletedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_lines_deleted_total",
				Help: "Order lines soft-deleted individually",
			},
		),
		UploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_bulk_uploads_total",
				Help: "Bulk uploads by result",
			},
			[]string{"result"},
		),
		UploadRowCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_bulk_upload_rows",
				Help:    "Rows per accepted bulk upload",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		ArchiveRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_archive_runs_total",
				Help: "Archival deletion runs by result",
			},
			[]string{"result"},
		),
		ArchivedUnitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_archived_units_total",
				Help: "Allocation units snapshotted and flagged deleted",
			},
		),
		TransfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_total",
				Help: "Two-leg transfers by result",
			},
			[]string{"result"},
		),
		AggregationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_aggregation_duration_seconds",
				Help:    "Time spent recomputing an aggregate view",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"view"},
		),
	}
}

func (m *LedgerMetrics) RecordLinePlaced(category, direction, source string, units int) {
	m.LinesPlacedTotal.WithLabelValues(category, direction, source).Inc()
	m.UnitsCreatedTotal.WithLabelValues(source).Add(float64(units))
}

func (m *LedgerMetrics) RecordReconciliation(added, removed int) {
	if added > 0 {
		m.UnitsCreatedTotal.WithLabelValues("edit").Add(float64(added))
	}
	if removed > 0 {
		m.UnitsRemovedTotal.Add(float64(removed))
	}
}

func (m *LedgerMetrics) RecordEditRejected(reason string) {
	m.EditsRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *LedgerMetrics) RecordLineDeleted() {
	m.LinesDeletedTotal.Inc()
}

func (m *LedgerMetrics) RecordUpload(result string, rows int) {
	m.UploadsTotal.WithLabelValues(result).Inc()
	if result == "ok" {
		m.UploadRowCount.Observe(float64(rows))
	}
}

func (m *LedgerMetrics) RecordArchive(result string, units int) {
	m.ArchiveRunsTotal.WithLabelValues(result).Inc()
	m.ArchivedUnitsTotal.Add(float64(units))
}

func (m *LedgerMetrics) RecordTransfer(result string) {
	m.TransfersTotal.WithLabelValues(result).Inc()
}

func (m *LedgerMetrics) RecordAggregation(view string, seconds float64) {
	m.AggregationDuration.WithLabelValues(view).Observe(seconds)
}
