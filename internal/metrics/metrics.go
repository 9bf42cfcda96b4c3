package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream tracks calls made to the café backend and dashboard sections that
// failed to load.
type Upstream struct {
	Calls          *prometheus.CounterVec
	LatencyMS      *prometheus.HistogramVec
	SourceFailures *prometheus.CounterVec
}

// NewUpstream creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewUpstream(reg prometheus.Registerer) *Upstream {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cafe",
		Subsystem: "upstream",
		Name:      "calls_total",
		Help:      "Total number of calls to the cafe backend.",
	}, []string{"op", "result"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cafe",
		Subsystem: "upstream",
		Name:      "call_duration_ms",
		Help:      "Cafe backend call latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"op"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cafe",
		Subsystem: "dashboard",
		Name:      "source_failures_total",
		Help:      "Dashboard sections that failed to refresh.",
	}, []string{"section"})

	reg.MustRegister(calls, latency, failures)
	return &Upstream{Calls: calls, LatencyMS: latency, SourceFailures: failures}
}

// ObserveCall records one backend call. It satisfies backend.Observer.
func (u *Upstream) ObserveCall(op string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	u.Calls.WithLabelValues(op, result).Inc()
	u.LatencyMS.WithLabelValues(op).Observe(float64(elapsed.Milliseconds()))
}

// SourceFailed records a dashboard section that failed to load.
func (u *Upstream) SourceFailed(section string) {
	u.SourceFailures.WithLabelValues(section).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
