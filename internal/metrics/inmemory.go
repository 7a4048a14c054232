package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	InvoicesCreated     uint64
	InvoicesUpdated     uint64
	InvoicesDeleted     uint64
	LoginSuccesses      uint64
	LoginFailures       uint64
	PageCacheHits       uint64
	PageCacheMisses     uint64
	ListDurationCount   uint64
	ListDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	invoicesCreated     uint64
	invoicesUpdated     uint64
	invoicesDeleted     uint64
	loginSuccesses      uint64
	loginFailures       uint64
	pageCacheHits       uint64
	pageCacheMisses     uint64
	listDurationCount   uint64
	listDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		InvoicesCreated:     atomic.LoadUint64(&m.invoicesCreated),
		InvoicesUpdated:     atomic.LoadUint64(&m.invoicesUpdated),
		InvoicesDeleted:     atomic.LoadUint64(&m.invoicesDeleted),
		LoginSuccesses:      atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:       atomic.LoadUint64(&m.loginFailures),
		PageCacheHits:       atomic.LoadUint64(&m.pageCacheHits),
		PageCacheMisses:     atomic.LoadUint64(&m.pageCacheMisses),
		ListDurationCount:   atomic.LoadUint64(&m.listDurationCount),
		ListDurationTotalNs: atomic.LoadInt64(&m.listDurationTotalNs),
	}
}

// IncInvoiceCreated increments the invoice created counter.
func (m *InMemoryRecorder) IncInvoiceCreated() {
	atomic.AddUint64(&m.invoicesCreated, 1)
}

// IncInvoiceUpdated increments the invoice updated counter.
func (m *InMemoryRecorder) IncInvoiceUpdated() {
	atomic.AddUint64(&m.invoicesUpdated, 1)
}

// IncInvoiceDeleted increments the invoice deleted counter.
func (m *InMemoryRecorder) IncInvoiceDeleted() {
	atomic.AddUint64(&m.invoicesDeleted, 1)
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncPageCacheHit increments the page cache hit counter.
func (m *InMemoryRecorder) IncPageCacheHit() {
	atomic.AddUint64(&m.pageCacheHits, 1)
}

// IncPageCacheMiss increments the page cache miss counter.
func (m *InMemoryRecorder) IncPageCacheMiss() {
	atomic.AddUint64(&m.pageCacheMisses, 1)
}

// ObserveListDuration records a listing query duration.
func (m *InMemoryRecorder) ObserveListDuration(duration time.Duration) {
	atomic.AddUint64(&m.listDurationCount, 1)
	atomic.AddInt64(&m.listDurationTotalNs, duration.Nanoseconds())
}
