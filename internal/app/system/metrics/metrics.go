// Package metrics holds the Prometheus collectors for clock decisions and schedule
// resolution. Collectors are package-level so services can record without plumbing;
// Register attaches them to a registry once at startup.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ClockDecisions counts clock-in/clock-out outcomes by action and result kind.
	ClockDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timeclock",
		Name:      "clock_decisions_total",
		Help:      "Clock-in and clock-out attempts by action and outcome.",
	}, []string{"action", "outcome"})

	// VerificationFlags counts advisory flags attached to time entries.
	VerificationFlags = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timeclock",
		Name:      "verification_flags_total",
		Help:      "Advisory verification flags attached to time entries, by type.",
	}, []string{"type"})

	// ResolveDuration observes effective schedule resolution latency.
	ResolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "timeclock",
		Name:      "schedule_resolve_seconds",
		Help:      "Time spent resolving effective shifts.",
		Buckets:   prometheus.DefBuckets,
	})

	// VirtualShifts counts shift occurrences synthesized from weekly templates.
	VirtualShifts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "timeclock",
		Name:      "virtual_shifts_synthesized_total",
		Help:      "Shift occurrences synthesized from weekly templates.",
	})
)

var registerOnce sync.Once

// NewRegistry returns a registry holding the app collectors plus Go runtime and
// process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	Register(reg)
	return reg
}

// Register attaches the app collectors to reg. Only the first call registers.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(ClockDecisions, VerificationFlags, ResolveDuration, VirtualShifts)
	})
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
