package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GlobalMetricsRegistry is the Prometheus metrics registry singleton.
// Initialised as a var (not inside init) so its value is set before any
// package init() runs, regardless of file compile order.
var GlobalMetricsRegistry = newRegistry()

func newRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(prometheus.NewGoCollector())
	return r
}

// ResetGlobalMetricsRegistry resets GlobalMetricsRegistry to its default
// value. This is needed by unit tests that create many pool/server
// instances and would otherwise try to register duplicate collectors.
func ResetGlobalMetricsRegistry() {
	GlobalMetricsRegistry = newRegistry()
}
