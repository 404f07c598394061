package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// Checker snapshots the goroutine count so a test can assert that the code
// under test cleaned up after itself. HTTP servers and the per-user lock
// path spawn goroutines; a forgotten shutdown shows up here.
type Checker struct {
	before int
	t      testing.TB
}

// NewChecker records the current goroutine count as the baseline.
func NewChecker(t testing.TB) *Checker {
	t.Helper()

	// Let goroutines from earlier tests settle before taking the baseline.
	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &Checker{before: runtime.NumGoroutine(), t: t}
}

// Assert fails the test when more than tolerance goroutines outlive the
// baseline. A short grace period lets exiting goroutines drain first.
func (c *Checker) Assert(tolerance int) {
	c.t.Helper()

	runtime.Gosched()
	time.Sleep(50 * time.Millisecond)
	runtime.GC()
	time.Sleep(50 * time.Millisecond)

	after := runtime.NumGoroutine()
	if leaked := after - c.before; leaked > tolerance {
		c.t.Errorf("goroutine leak: before=%d after=%d leaked=%d tolerance=%d",
			c.before, after, leaked, tolerance)
	}
}

// CheckNone runs fn and fails the test when any goroutine it started is
// still alive afterwards.
func CheckNone(t *testing.T, fn func()) {
	t.Helper()

	c := NewChecker(t)
	fn()
	c.Assert(0)
}
