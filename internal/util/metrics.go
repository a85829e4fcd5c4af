package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_orders_added_total",
		Help: "Total number of orders added",
	})

	OrdersEditedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_orders_edited_total",
		Help: "Total number of orders edited",
	})

	OrdersRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_orders_removed_total",
		Help: "Total number of orders removed",
	})

	OrderOperationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flooring_order_operations_failed_total",
		Help: "Total number of failed order operations",
	}, []string{"operation", "reason"})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flooring_exports_total",
		Help: "Total number of completed data exports",
	}, []string{"format"})

	ExportedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_exported_rows_total",
		Help: "Total number of order rows written by exports",
	})

	OrderFilesLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_order_files_loaded_total",
		Help: "Total number of per-date order files read",
	})

	OrderFileWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flooring_order_file_write_latency_seconds",
		Help:    "Latency of rewriting a per-date order file",
		Buckets: prometheus.DefBuckets,
	})
)

// WriteMetrics dumps the default registry to path in the text exposition
// format, for collection by a node exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
