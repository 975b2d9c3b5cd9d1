package arbitrage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the scanner's prometheus instruments.
type Metrics struct {
	scanDuration   prometheus.Histogram
	cyclesExamined prometheus.Counter
	arbsFound      prometheus.Counter
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arbengine",
			Subsystem: "scanner",
			Name:      "scan_duration_seconds",
			Help:      "Wall-clock duration of one full arbitrage scan.",
			Buckets:   prometheus.DefBuckets,
		}),
		cyclesExamined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arbengine",
			Subsystem: "scanner",
			Name:      "cycles_examined_total",
			Help:      "Number of candidate cycles evaluated across all scans.",
		}),
		arbsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arbengine",
			Subsystem: "scanner",
			Name:      "arbs_found_total",
			Help:      "Number of cycles that passed the minimum-net-profit filter.",
		}),
	}

	registry.MustRegister(m.scanDuration, m.cyclesExamined, m.arbsFound)
	return m
}
