// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Invoice mutation metrics
	IncInvoiceCreated()
	IncInvoiceUpdated()
	IncInvoiceDeleted()

	// Login metrics
	IncLoginSuccess()
	IncLoginFailure()

	// Page cache metrics
	IncPageCacheHit()
	IncPageCacheMiss()

	// Listing query metrics
	ObserveListDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
