package testutil

import (
	"sync"
	"testing"
)

// CallbackTracker records invocations of a callback. It is safe for
// concurrent use, so it can be shared by worker goroutines.
type CallbackTracker struct {
	mu     sync.Mutex
	count  int
	value  interface{}
	values []interface{}
}

// NewCallbackTracker creates an empty tracker.
func NewCallbackTracker() *CallbackTracker {
	return &CallbackTracker{}
}

// Mark records one call. The first argument, if any, is kept as the latest
// value and appended to Values.
func (c *CallbackTracker) Mark(args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count++
	if len(args) > 0 {
		c.value = args[0]
		c.values = append(c.values, args[0])
	}
}

// Called reports whether Mark has been called.
func (c *CallbackTracker) Called() bool {
	return c.CallCount() > 0
}

// CallCount returns the number of calls to Mark.
func (c *CallbackTracker) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Value returns the most recently recorded value.
func (c *CallbackTracker) Value() interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Values returns every recorded value in call order.
func (c *CallbackTracker) Values() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interface{}(nil), c.values...)
}

// Reset clears all recorded state.
func (c *CallbackTracker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.value = nil
	c.values = nil
}

// AssertCalled fails the test if Mark was never called.
func (c *CallbackTracker) AssertCalled(t *testing.T) {
	t.Helper()
	if !c.Called() {
		t.Fatal("expected callback to be called")
	}
}

// AssertNotCalled fails the test if Mark was called.
func (c *CallbackTracker) AssertNotCalled(t *testing.T) {
	t.Helper()
	if n := c.CallCount(); n != 0 {
		t.Fatalf("expected no calls, got %d", n)
	}
}

// AssertCallCount fails the test unless Mark was called exactly want times.
func (c *CallbackTracker) AssertCallCount(t *testing.T, want int) {
	t.Helper()
	if got := c.CallCount(); got != want {
		t.Fatalf("call count = %d, want %d", got, want)
	}
}
