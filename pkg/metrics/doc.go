/*
Package metrics defines the Prometheus instrumentation for reconciliation.

Collectors are package-level and registered against the default registry at
init, following standard Prometheus client conventions. Reconcile outcomes
are counted by kind and action, durations observed per kind, and backend
calls and errors counted per operation.

Handler exposes the standard scrape endpoint; Timer wraps duration
observation for call sites that want a one-liner:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ReconcileDuration.WithLabelValues(kind))
*/
package metrics
