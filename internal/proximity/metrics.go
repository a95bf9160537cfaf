package proximity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// transitions tracks state edges by direction (enter, exit).
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proximity_transitions_total",
		Help: "Total number of proximity state transitions by direction",
	}, []string{"direction"})

	// lookupFailures tracks store lookup errors absorbed by the monitor.
	lookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proximity_lookup_failures_total",
		Help: "Total number of store lookup failures during proximity evaluation",
	})

	// staleFixes tracks fixes discarded because an evaluation was in flight.
	staleFixes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proximity_stale_fixes_total",
		Help: "Total number of location fixes discarded as stale",
	})
)
