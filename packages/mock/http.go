package mock

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
	"github.com/abdul-hamid-achik/hitmock/packages/expect"
)

// HTTPMock is a mocked HTTP endpoint with an ordered queue of expected
// requests. Register its Serve method with a Service.
type HTTPMock struct {
	url   string
	queue *expect.Queue[HTTPSpec]
	rec   assertions.Recorder

	mu       sync.Mutex
	requests int
}

// NewHTTPMock creates an HTTP mock for url that reports to rec
func NewHTTPMock(url string, rec assertions.Recorder, specs ...HTTPSpec) *HTTPMock {
	return &HTTPMock{
		url:   url,
		queue: expect.NewQueue(url, specs...),
		rec:   rec,
	}
}

// Name returns the route key the mock answers
func (m *HTTPMock) Name() string {
	return m.url
}

// Requests returns how many requests reached the mock
func (m *HTTPMock) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

// Remaining returns the number of expected requests not yet received
func (m *HTTPMock) Remaining() int {
	return m.queue.Remaining()
}

// Step reports any expectations left from the previous step, then replaces
// them with specs.
func (m *HTTPMock) Step(specs ...HTTPSpec) {
	m.Verify()
	m.queue.Replace(specs...)
}

// Verify records one failure when expected requests remain and returns
// their count.
func (m *HTTPMock) Verify() int {
	remaining := m.queue.Remaining()
	if remaining > 0 {
		assertions.Fail(m.rec, MethodMockHTTP, fmt.Sprintf(
			"Expected %d more requests to %q HTTP service, than actually ran", remaining, m.url))
	}
	return remaining
}

// Serve matches one fully buffered request against the next expectation and
// writes the response. The returned error is an authoring defect (for
// example ErrResponseMissing), never a test assertion.
func (m *HTTPMock) Serve(w http.ResponseWriter, r *http.Request, body string) error {
	m.mu.Lock()
	m.requests++
	requestNumber := m.requests
	spec, ok := m.queue.Consume()
	m.mu.Unlock()

	if !ok {
		assertions.Fail(m.rec, MethodMockHTTP, fmt.Sprintf(
			"Requesting %q HTTP service more times, than expected. Request #%d", m.url, requestNumber))
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Unexpected request\n")
		return nil
	}

	switch s := spec.(type) {
	case HTTPHandler:
		s(w, r, body)
		return nil
	case Exchange:
		return m.exchange(w, r, body, requestNumber, s)
	default:
		return fmt.Errorf("%q request #%d: %w", m.url, requestNumber, ErrResponseMissing)
	}
}

func (m *HTTPMock) exchange(w http.ResponseWriter, r *http.Request, body string, requestNumber int, ex Exchange) error {
	if ex.Request != nil {
		m.rec.Record(ex.Request.validate(requestInfo{url: m.url, number: requestNumber}, body, r))
	}

	if ex.SideEffect != nil {
		if err := ex.SideEffect(r.Context()); err != nil {
			m.rec.Record(assertions.New("sideEffect", fmt.Sprintf(
				"%q HTTP service side effect failed, request #%d", m.url, requestNumber), err))
		}
	}

	written, err := writeResponse(w, ex)
	if err != nil {
		return fmt.Errorf("%q request #%d: %w", m.url, requestNumber, err)
	}
	if !written {
		return fmt.Errorf("%q request #%d: %w", m.url, requestNumber, ErrResponseMissing)
	}
	return nil
}
