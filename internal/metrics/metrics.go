// Package metrics exposes the Prometheus instrumentation for the stores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutations counts store mutations by store, operation and outcome.
var Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mybudget_store_mutations_total",
	Help: "Number of store mutations by store, operation and result.",
}, []string{"store", "operation", "result"})

// CascadeFailures counts transaction mutations whose dependent refresh of
// the account or budget store failed. Each one is a consistency risk: the
// transaction list and the derived aggregates may diverge until the next
// successful refresh.
var CascadeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mybudget_cascade_failures_total",
	Help: "Number of transaction mutations with a failed dependent refresh.",
}, []string{"store"})
