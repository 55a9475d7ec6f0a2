package camera

import "sync/atomic"

// Lease is the mutual-exclusion token for a physical camera.
//
// Only one video stream may hold the device at a time; a second
// consumer that fails to acquire the lease is served a busy
// placeholder instead of a capture handle. TryAcquire never blocks.
type Lease struct {
	held atomic.Bool
}

// NewLease returns an unheld lease.
func NewLease() *Lease {
	return &Lease{}
}

// TryAcquire attempts to take the lease. It returns true exactly once
// per release, no matter how many goroutines race for it.
func (l *Lease) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

// Release returns the lease. The next TryAcquire will succeed.
func (l *Lease) Release() {
	l.held.Store(false)
}

// Held reports whether the lease is currently taken.
func (l *Lease) Held() bool {
	return l.held.Load()
}
