package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus counters for one okayo process. The registry
// is flushed to a node_exporter textfile on exit.
type Metrics struct {
	registry       *prometheus.Registry
	invoicesTotal  prometheus.Counter
	invoiceAmount  *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	writesTotal    *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
}

// NewMetrics initialises the registry and the counters.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	invoices := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "okayo_invoices_total",
		Help: "Number of confirmed invoices.",
	})
	amount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okayo_invoice_amount_total",
		Help: "Invoiced amount by tax basis.",
	}, []string{"basis"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okayo_stock_rejections_total",
		Help: "Purchase attempts rejected by the catalogue, by reason.",
	}, []string{"reason"})
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okayo_document_writes_total",
		Help: "Snapshot writes by document and outcome.",
	}, []string{"document", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "okayo_document_write_duration_seconds",
		Help:    "Duration of snapshot writes per document.",
		Buckets: prometheus.DefBuckets,
	}, []string{"document"})
	registry.MustRegister(invoices, amount, rejections, writes, duration)
	return &Metrics{
		registry:       registry,
		invoicesTotal:  invoices,
		invoiceAmount:  amount,
		rejections:     rejections,
		writesTotal:    writes,
		renderDuration: duration,
	}
}

// ObserveInvoice counts one confirmed invoice and its amounts.
func (m *Metrics) ObserveInvoice(totalHT, totalTTC float64) {
	if m == nil {
		return
	}
	m.invoicesTotal.Inc()
	m.invoiceAmount.WithLabelValues("ht").Add(totalHT)
	m.invoiceAmount.WithLabelValues("ttc").Add(totalTTC)
}

// ObserveRejection counts a refused purchase attempt.
func (m *Metrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// ObserveWrite records a snapshot write of document ("catalogue", "invoice").
func (m *Metrics) ObserveWrite(document string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.writesTotal.WithLabelValues(document, outcome).Inc()
	m.renderDuration.WithLabelValues(document).Observe(time.Since(started).Seconds())
}

// Registerer exposes the registry for custom collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// Gatherer exposes the registry for reads.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.DefaultGatherer
	}
	return m.registry
}

// WriteTextfile flushes every metric to path in the text exposition format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
