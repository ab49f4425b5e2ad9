package runner

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
	"github.com/abdul-hamid-achik/hitmock/packages/expect"
	"github.com/abdul-hamid-achik/hitmock/packages/mock"
)

// Assertion method names recorded by the reconciler
const (
	MethodExpect = "expect"
	MethodError  = assertions.MethodError
	MethodFail   = "fail"
)

// Test is the context handed to one test function. It is safe for use from
// the goroutines serving HTTP mocks. Tests that share a Service must not run
// concurrently: Done stops the service.
type Test struct {
	ID   string
	Name string

	opts       Options
	service    *mock.Service
	collector  *assertions.Collector
	logs       *logQueue
	onComplete func(*assertions.List)
	start      time.Time
	finished   chan struct{}

	mu        sync.Mutex
	expecting int
	verifiers []expect.Verifier
	routes    []string
	fatal     []error
	done      bool
	result    *assertions.List
}

// TestOption is a functional option for Test
type TestOption func(*Test)

// WithService sets the HTTP stub used by MockHTTP. Defaults to
// mock.Default().
func WithService(s *mock.Service) TestOption {
	return func(t *Test) {
		t.service = s
	}
}

// OnComplete registers a callback invoked after TestDone with the final list
func OnComplete(fn func(*assertions.List)) TestOption {
	return func(t *Test) {
		t.onComplete = fn
	}
}

// NewTest creates a test named name reporting through opts.
func NewTest(name string, opts Options, testOpts ...TestOption) (*Test, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	t := &Test{
		ID:        uuid.NewString(),
		Name:      name,
		opts:      opts,
		start:     time.Now(),
		finished:  make(chan struct{}),
		expecting: -1,
	}
	for _, opt := range testOpts {
		opt(t)
	}
	if t.service == nil {
		t.service = mock.Default()
	}

	t.logs = newLogQueue(opts.Log)
	t.collector = assertions.NewCollector(assertions.OnRecord(t.logs.push))
	return t, nil
}

// Record adds an assertion to the test. Mocks created by the test record
// through it.
func (t *Test) Record(a *assertions.Assertion) {
	t.collector.Record(a)
}

// Assertions returns the assertions recorded so far
func (t *Test) Assertions() []*assertions.Assertion {
	return t.collector.Snapshot()
}

// Expect declares how many assertions the test must record before Done.
func (t *Test) Expect(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expecting = n
}

// Finished is closed once Done has reported the test
func (t *Test) Finished() <-chan struct{} {
	return t.finished
}

// Service returns the HTTP stub the test registers its mocks with
func (t *Test) Service() *mock.Service {
	return t.service
}

// MockFunction creates a function mock owned by the test. Its leftover
// expectations fail the test at Done.
func (t *Test) MockFunction(name string, specs ...mock.FuncSpec) *mock.Function {
	f := mock.NewFunction(name, t, specs...)
	t.track(f)
	return f
}

// MockHTTP creates an HTTP mock owned by the test and routes url to it,
// starting the service if needed.
func (t *Test) MockHTTP(url string, specs ...mock.HTTPSpec) (*mock.HTTPMock, error) {
	m := mock.NewHTTPMock(url, t, specs...)

	handler := func(w http.ResponseWriter, r *http.Request, body string) error {
		err := m.Serve(w, r, body)
		if err != nil {
			t.mu.Lock()
			t.fatal = append(t.fatal, err)
			t.mu.Unlock()
		}
		return err
	}
	if err := t.service.Register(url, handler); err != nil {
		return nil, fmt.Errorf("registering HTTP mock %q: %w", url, err)
	}

	t.mu.Lock()
	t.routes = append(t.routes, url)
	t.mu.Unlock()
	t.track(m)
	return m, nil
}

func (t *Test) track(v expect.Verifier) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.verifiers = append(t.verifiers, v)
}

func (t *Test) check(a *assertions.Assertion) bool {
	t.Record(a)
	return a.Passed()
}

// Ok passes when value is truthy
func (t *Test) Ok(value any, message string) bool {
	return t.check(assertions.Ok(value, message))
}

// Equals passes when actual loosely equals expected
func (t *Test) Equals(actual, expected any, message string) bool {
	return t.check(assertions.Equals(actual, expected, message))
}

// NotEquals is the negation of Equals
func (t *Test) NotEquals(actual, expected any, message string) bool {
	return t.check(assertions.NotEquals(actual, expected, message))
}

// Same passes when actual and expected are deeply equal
func (t *Test) Same(actual, expected any, message string) bool {
	return t.check(assertions.Same(actual, expected, message))
}

// NotSame is the negation of Same
func (t *Test) NotSame(actual, expected any, message string) bool {
	return t.check(assertions.NotSame(actual, expected, message))
}

// StrictEqual passes when actual and expected are deeply equal with identical types
func (t *Test) StrictEqual(actual, expected any, message string) bool {
	return t.check(assertions.StrictEqual(actual, expected, message))
}

// NotStrictEqual is the negation of StrictEqual
func (t *Test) NotStrictEqual(actual, expected any, message string) bool {
	return t.check(assertions.NotStrictEqual(actual, expected, message))
}

// Contains passes when s contains the given value
func (t *Test) Contains(s, contains any, message string) bool {
	return t.check(assertions.Contains(s, contains, message))
}

// Matches passes when str matches the regular expression rx
func (t *Test) Matches(str, rx any, message string) bool {
	return t.check(assertions.Matches(str, rx, message))
}

// Throws passes when fn panics
func (t *Test) Throws(fn func(), message string) bool {
	return t.check(assertions.Throws(fn, message))
}

// DoesNotThrow passes when fn returns normally
func (t *Test) DoesNotThrow(fn func(), message string) bool {
	return t.check(assertions.DoesNotThrow(fn, message))
}

// IfError fails when err is non-nil
func (t *Test) IfError(err error, message string) bool {
	return t.check(assertions.IfError(err, message))
}

// Fail records an unconditional failure
func (t *Test) Fail(message string) {
	assertions.Fail(t, MethodFail, message)
}

// Done reconciles the test and reports it. err, when non-nil, is recorded as
// a failure. Only the first call has any effect; later calls wait for it and
// return the same list. Done must not be called from the Log callback.
func (t *Test) Done(err error) *assertions.List {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		<-t.finished
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.result
	}
	t.done = true
	expecting := t.expecting
	verifiers := append([]expect.Verifier(nil), t.verifiers...)
	routes := append([]string(nil), t.routes...)
	t.mu.Unlock()

	if ran := t.collector.Len(); expecting >= 0 && expecting != ran {
		assertions.Fail(t, MethodExpect, fmt.Sprintf("Expected %d assertions, %d ran", expecting, ran))
	}

	for _, v := range verifiers {
		v.Verify()
	}

	for _, route := range routes {
		t.service.Unregister(route)
	}
	if stopErr := t.service.Stop(); stopErr != nil {
		t.Record(assertions.New(MethodError, "", stopErr))
	}

	t.mu.Lock()
	fatal := t.fatal
	t.mu.Unlock()
	for _, e := range fatal {
		t.Record(assertions.New(MethodError, "", e))
	}

	if err != nil {
		t.Record(assertions.New(MethodError, "", err))
	}

	t.logs.close()

	list := assertions.NewList(t.collector.Snapshot(), time.Since(t.start))
	t.mu.Lock()
	t.result = list
	t.mu.Unlock()

	t.opts.TestDone(t.Name, list)
	if t.onComplete != nil {
		t.onComplete(list)
	}
	close(t.finished)
	return list
}
