package assertions

import (
	"sync"
)

// Recorder receives assertions produced by mocks and checks.
type Recorder interface {
	Record(a *Assertion)
}

// RecorderFunc adapts a function to the Recorder interface
type RecorderFunc func(a *Assertion)

// Record calls f(a)
func (f RecorderFunc) Record(a *Assertion) {
	f(a)
}

// Collector accumulates assertions in the order they are recorded. It is
// safe for concurrent use; HTTP mocks record from request goroutines.
type Collector struct {
	mu       sync.Mutex
	items    []*Assertion
	onRecord func(*Assertion)
}

// CollectorOption is a functional option for Collector
type CollectorOption func(*Collector)

// OnRecord registers a hook invoked after every recorded assertion. The hook
// runs outside the collector lock.
func OnRecord(fn func(*Assertion)) CollectorOption {
	return func(c *Collector) {
		c.onRecord = fn
	}
}

// NewCollector creates an empty collector
func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{
		items: make([]*Assertion, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Record appends a to the collector
func (c *Collector) Record(a *Assertion) {
	c.mu.Lock()
	c.items = append(c.items, a)
	c.mu.Unlock()

	if c.onRecord != nil {
		c.onRecord(a)
	}
}

// Len returns how many assertions were recorded so far
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Snapshot returns a copy of the recorded assertions
func (c *Collector) Snapshot() []*Assertion {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Assertion, len(c.items))
	copy(out, c.items)
	return out
}

// Fail records a failed assertion for method with the given message.
func Fail(r Recorder, method, message string) *Assertion {
	a := New(method, message, &CheckError{Method: method, Detail: message})
	r.Record(a)
	return a
}
