package mock

import (
	"fmt"
	"sync"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
	"github.com/abdul-hamid-achik/hitmock/packages/expect"
)

// Assertion method names used by the mocks
const (
	MethodMockFunction = "mockFunction"
	MethodMockHTTP     = "mockHttpService"
	MethodDeepEqual    = "deepEqual"
	MethodRequest      = "mockHttpRequest"
)

// Function is a mocked function with an ordered queue of expected calls.
type Function struct {
	name  string
	queue *expect.Queue[FuncSpec]
	rec   assertions.Recorder

	mu    sync.Mutex
	calls int
}

// NewFunction creates a function mock that reports to rec
func NewFunction(name string, rec assertions.Recorder, specs ...FuncSpec) *Function {
	return &Function{
		name:  name,
		queue: expect.NewQueue(name, specs...),
		rec:   rec,
	}
}

// Name returns the mocked function's name
func (f *Function) Name() string {
	return f.name
}

// Calls returns how many times the mock was invoked
func (f *Function) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Remaining returns the number of expected calls not yet made
func (f *Function) Remaining() int {
	return f.queue.Remaining()
}

// Call invokes the mock. A declared Throw comes back as err.
func (f *Function) Call(args ...any) (any, error) {
	return f.invoke(nil, args)
}

// Construct invokes the mock as a constructor: Construct properties of the
// matched expectation are copied onto receiver, which must be a non-nil
// pointer to a struct or a map[string]any.
func (f *Function) Construct(receiver any, args ...any) (any, error) {
	return f.invoke(receiver, args)
}

// Func returns the mock as a plain function value
func (f *Function) Func() func(args ...any) (any, error) {
	return f.Call
}

// Step reports any expectations left from the previous step, then replaces
// them with specs.
func (f *Function) Step(specs ...FuncSpec) {
	f.Verify()
	f.queue.Replace(specs...)
}

// Verify records one failure when expected calls remain and returns their
// count.
func (f *Function) Verify() int {
	remaining := f.queue.Remaining()
	if remaining > 0 {
		assertions.Fail(f.rec, MethodMockFunction, fmt.Sprintf(
			"Expected %d more %q function calls, than actually ran", remaining, f.name))
	}
	return remaining
}

func (f *Function) invoke(receiver any, args []any) (any, error) {
	f.mu.Lock()
	f.calls++
	callNumber := f.calls
	spec, ok := f.queue.Consume()
	f.mu.Unlock()

	if !ok {
		assertions.Fail(f.rec, MethodMockFunction, fmt.Sprintf(
			"Calling %q function more times, than expected. Call #%d", f.name, callNumber))
		return nil, nil
	}

	var call Call
	switch s := spec.(type) {
	case Handler:
		return s(args...)
	case Args:
		call = Call{Arguments: []any(s)}
	case Call:
		call = s
	}

	f.checkArguments(callNumber, call.Arguments, args)

	if call.Construct != nil && receiver != nil {
		if err := construct(receiver, call.Construct); err != nil {
			return nil, fmt.Errorf("%q call #%d: %w", f.name, callNumber, err)
		}
	}

	if call.SideEffect != nil {
		call.SideEffect()
	}

	if call.Throw != nil {
		return nil, call.Throw
	}
	return call.Return, nil
}

func (f *Function) checkArguments(callNumber int, expected, actual []any) {
	if len(actual) != len(expected) {
		assertions.Fail(f.rec, MethodMockFunction, fmt.Sprintf(
			"Wrong %q function argument count. Expected %d, got %d, call #%d",
			f.name, len(expected), len(actual), callNumber))
		return
	}

	for i := range actual {
		ok, detail := MatchValue(actual[i], expected[i])
		if ok {
			continue
		}
		message := fmt.Sprintf("Wrong %q function argument #%d value. Expected \"%v\" got \"%v\", call #%d",
			f.name, i+1, expected[i], actual[i], callNumber)
		f.rec.Record(assertions.New(MethodDeepEqual, message, &assertions.CheckError{
			Method: MethodDeepEqual,
			Detail: detail,
		}))
	}
}
