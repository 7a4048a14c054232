package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncInvoiceCreated is a no-op.
func (n *NoopRecorder) IncInvoiceCreated() {}

// IncInvoiceUpdated is a no-op.
func (n *NoopRecorder) IncInvoiceUpdated() {}

// IncInvoiceDeleted is a no-op.
func (n *NoopRecorder) IncInvoiceDeleted() {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}

// IncPageCacheHit is a no-op.
func (n *NoopRecorder) IncPageCacheHit() {}

// IncPageCacheMiss is a no-op.
func (n *NoopRecorder) IncPageCacheMiss() {}

// ObserveListDuration is a no-op.
func (n *NoopRecorder) ObserveListDuration(duration time.Duration) {}
