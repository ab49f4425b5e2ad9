package mock

import (
	"context"
	"net/http"
)

// FuncSpec is one expected call of a function mock. It is one of Args,
// Handler or Call.
type FuncSpec interface {
	isFuncSpec()
}

// Args is the shorthand form: the expected positional arguments. It is
// equivalent to Call{Arguments: args}.
type Args []any

// Handler replaces matching entirely; it receives the real arguments and its
// results are returned to the caller.
type Handler func(args ...any) (any, error)

// Call is the structured form of a function expectation.
type Call struct {
	// Arguments are compared positionally with deep equality, or through
	// Matcher when an expected value implements it.
	Arguments []any
	// Construct is copied onto the receiver given to Function.Construct.
	Construct map[string]any
	// Throw, when set, is returned as the call's error.
	Throw error
	// Return is the value handed back to the caller.
	Return any
	// SideEffect runs after argument checks, before Throw/Return.
	SideEffect func()
}

func (Args) isFuncSpec()    {}
func (Handler) isFuncSpec() {}
func (Call) isFuncSpec()    {}

// HTTPSpec is one expected request of an HTTP mock. It is one of HTTPHandler
// or Exchange.
type HTTPSpec interface {
	isHTTPSpec()
}

// HTTPHandler replaces matching entirely and is responsible for writing the
// response.
type HTTPHandler func(w http.ResponseWriter, r *http.Request, body string)

// Exchange is the structured form of an HTTP expectation.
type Exchange struct {
	// Request validates the buffered request body. Optional.
	Request RequestMatcher
	// Response selects content type and serialization. Required unless the
	// expectation is a HTTPHandler.
	Response *Body
	// Headers are merged over the computed defaults; caller headers win.
	Headers map[string]string
	// StatusCode defaults to 200
	StatusCode int
	// Charset overrides the utf-8 default for textual bodies
	Charset string
	// SideEffect runs before the response is written. The response waits
	// for it to return; its error is recorded as a failed assertion.
	SideEffect func(ctx context.Context) error
}

func (HTTPHandler) isHTTPSpec() {}
func (Exchange) isHTTPSpec()    {}
