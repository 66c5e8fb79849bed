// Package metrics holds the process-wide Prometheus counters and an optional
// HTTP endpoint that exposes them.
package metrics
