package runner

import (
	"errors"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

var (
	// ErrMissingTestDone is returned when Options has no TestDone callback
	ErrMissingTestDone = errors.New("runner options: TestDone callback is required")

	// ErrTestTimeout is reported when a test does not call Done in time
	ErrTestTimeout = errors.New("test timed out before calling Done")
)

// Options are the lifecycle callbacks a test runner supplies. Only TestDone
// is required; Normalize fills the others with no-ops.
type Options struct {
	ModuleStart func(name string)
	ModuleDone  func(name string, list *assertions.List)
	TestStart   func(name string)
	TestReady   func(t *Test)
	TestDone    func(name string, list *assertions.List)
	Log         func(a *assertions.Assertion)
}

// Normalize returns a copy of o with every optional callback set.
func (o Options) Normalize() (Options, error) {
	if o.TestDone == nil {
		return o, ErrMissingTestDone
	}
	if o.ModuleStart == nil {
		o.ModuleStart = func(string) {}
	}
	if o.ModuleDone == nil {
		o.ModuleDone = func(string, *assertions.List) {}
	}
	if o.TestStart == nil {
		o.TestStart = func(string) {}
	}
	if o.TestReady == nil {
		o.TestReady = func(*Test) {}
	}
	if o.Log == nil {
		o.Log = func(*assertions.Assertion) {}
	}
	return o, nil
}
