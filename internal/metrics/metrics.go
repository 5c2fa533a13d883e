package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the service counters together with the registry that
// the /metrics endpoint exposes.
type Metrics struct {
	Registry *prometheus.Registry

	AssignPasses      prometheus.Counter
	AssignedOrders    prometheus.Counter
	RateLimitExceeded prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry:          prometheus.NewRegistry(),
		AssignPasses:      newAssignPassesTotal(),
		AssignedOrders:    newAssignedOrdersTotal(),
		RateLimitExceeded: newRateLimitExceededTotal(),
	}

	m.Registry.MustRegister(m.AssignPasses, m.AssignedOrders, m.RateLimitExceeded)

	return m
}

// newAssignPassesTotal returns a Prometheus counter for the number of executed assignment passes
func newAssignPassesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assign_passes_total",
		Help: "Total number of executed assignment passes",
	})
}

// newAssignedOrdersTotal returns a Prometheus counter for the number of orders handed to couriers
func newAssignedOrdersTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assigned_orders_total",
		Help: "Total number of orders handed to couriers",
	})
}

// newRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func newRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}
