package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ScanMetrics counts what happens to decoded payloads across scan sessions.
type ScanMetrics struct {
	scansAccepted prometheus.Counter
	scansRejected prometheus.Counter
	scansIgnored  prometheus.Counter

	salesTotal prometheus.Counter

	activeSessions prometheus.Gauge
}

// NewScanMetrics registers the scan collectors on the default registerer.
func NewScanMetrics() *ScanMetrics {
	return newScanMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newScanMetricsWithRegisterer(registerer prometheus.Registerer) *ScanMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ScanMetrics{
		scansAccepted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "lot_tracker_scans_accepted_total",
			Help: "Total number of decoded payloads that resulted in a sale",
		}),
		scansRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "lot_tracker_scans_rejected_total",
			Help: "Total number of decoded payloads that failed (unknown code or out of stock)",
		}),
		scansIgnored: registerCounter(registerer, prometheus.CounterOpts{
			Name: "lot_tracker_scans_ignored_total",
			Help: "Total number of decoded payloads dropped during a cooldown window",
		}),
		salesTotal: registerCounter(registerer, prometheus.CounterOpts{
			Name: "lot_tracker_sales_total",
			Help: "Total number of units sold through any channel",
		}),
		activeSessions: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "lot_tracker_active_scan_sessions",
			Help: "Number of currently running scan sessions",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func (m *ScanMetrics) RecordScanAccepted() { m.scansAccepted.Inc() }
func (m *ScanMetrics) RecordScanRejected() { m.scansRejected.Inc() }
func (m *ScanMetrics) RecordScanIgnored()  { m.scansIgnored.Inc() }
func (m *ScanMetrics) RecordSale()         { m.salesTotal.Inc() }

func (m *ScanMetrics) RecordSessionStarted() { m.activeSessions.Inc() }
func (m *ScanMetrics) RecordSessionStopped() { m.activeSessions.Dec() }
