package assertions

import (
	"time"
)

// MethodError tags assertions that carry a raised error rather than a failed
// check.
const MethodError = "error"

// Assertion is the recorded outcome of a single check.
type Assertion struct {
	Method  string
	Message string
	Err     error
}

// New creates an assertion. When message is empty the error text is used.
func New(method, message string, err error) *Assertion {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &Assertion{
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// Passed reports whether the check succeeded
func (a *Assertion) Passed() bool {
	return a.Err == nil
}

// Failed reports whether the check recorded an error
func (a *Assertion) Failed() bool {
	return a.Err != nil
}

// List is the ordered set of assertions recorded by one test or module.
type List struct {
	Items    []*Assertion
	Duration time.Duration
}

// NewList wraps items with the elapsed duration.
func NewList(items []*Assertion, duration time.Duration) *List {
	if items == nil {
		items = make([]*Assertion, 0)
	}
	return &List{
		Items:    items,
		Duration: duration,
	}
}

// Len returns the number of recorded assertions
func (l *List) Len() int {
	return len(l.Items)
}

// Failures counts the failed assertions
func (l *List) Failures() int {
	failures := 0
	for _, a := range l.Items {
		if a.Failed() {
			failures++
		}
	}
	return failures
}

// Passes counts the passed assertions
func (l *List) Passes() int {
	return l.Len() - l.Failures()
}

// DurationMs returns the duration in milliseconds
func (l *List) DurationMs() int64 {
	return l.Duration.Milliseconds()
}

// Merge concatenates lists in order and sums their durations.
func Merge(lists ...*List) *List {
	result := NewList(nil, 0)
	for _, l := range lists {
		if l == nil {
			continue
		}
		result.Items = append(result.Items, l.Items...)
		result.Duration += l.Duration
	}
	return result
}
