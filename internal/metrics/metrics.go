// Package metrics exposes Prometheus collectors for the harvester.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesRenderedTotal    *prometheus.CounterVec
	recordsExtractedTotal *prometheus.CounterVec
	rowsInsertedTotal     prometheus.Counter
	rowsSkippedTotal      *prometheus.CounterVec
	rowsFailedTotal       prometheus.Counter
	imagesRelocatedTotal  prometheus.Counter
	imagesOmittedTotal    *prometheus.CounterVec

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		pagesRenderedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_pages_rendered_total",
				Help: "Total directory pages rendered, labeled by partition.",
			},
			[]string{"partition"},
		)
		recordsExtractedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_records_extracted_total",
				Help: "Total records extracted, labeled by partition.",
			},
			[]string{"partition"},
		)
		rowsInsertedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_rows_inserted_total",
				Help: "Total rows persisted by the load pipeline.",
			},
		)
		rowsSkippedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_rows_skipped_total",
				Help: "Total rows skipped, labeled by reason.",
			},
			[]string{"reason"},
		)
		rowsFailedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_rows_failed_total",
				Help: "Total rows that failed to persist.",
			},
		)
		imagesRelocatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_images_relocated_total",
				Help: "Total photos copied into blob storage.",
			},
		)
		imagesOmittedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_images_omitted_total",
				Help: "Total photo relocations omitted, labeled by reason.",
			},
			[]string{"reason"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// PageRendered counts one rendered page for a partition.
func PageRendered(partition string) {
	if pagesRenderedTotal == nil {
		return
	}
	pagesRenderedTotal.WithLabelValues(partition).Inc()
}

// RecordsExtracted counts extracted records for a partition.
func RecordsExtracted(partition string, n int) {
	if recordsExtractedTotal == nil || n <= 0 {
		return
	}
	recordsExtractedTotal.WithLabelValues(partition).Add(float64(n))
}

// RowInserted counts one persisted row.
func RowInserted() {
	if rowsInsertedTotal == nil {
		return
	}
	rowsInsertedTotal.Inc()
}

// RowSkipped counts one skipped row by reason.
func RowSkipped(reason string) {
	if rowsSkippedTotal == nil {
		return
	}
	rowsSkippedTotal.WithLabelValues(reason).Inc()
}

// RowFailed counts one failed row.
func RowFailed() {
	if rowsFailedTotal == nil {
		return
	}
	rowsFailedTotal.Inc()
}

// ImageRelocated counts one successful photo relocation.
func ImageRelocated() {
	if imagesRelocatedTotal == nil {
		return
	}
	imagesRelocatedTotal.Inc()
}

// ImageOmitted counts one best-effort relocation that was skipped.
func ImageOmitted(reason string) {
	if imagesOmittedTotal == nil {
		return
	}
	imagesOmittedTotal.WithLabelValues(reason).Inc()
}
