package runner

import (
	"sync"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

// logQueue delivers assertions to the Log callback on a single worker
// goroutine, in recording order. Recording never waits for the callback.
type logQueue struct {
	log func(*assertions.Assertion)

	mu      sync.Mutex
	pending []*assertions.Assertion
	closed  bool

	wake    chan struct{}
	drained chan struct{}
}

func newLogQueue(log func(*assertions.Assertion)) *logQueue {
	q := &logQueue{
		log:     log,
		wake:    make(chan struct{}, 1),
		drained: make(chan struct{}),
	}
	go q.run()
	return q
}

// push schedules a for logging. Pushes after close are dropped.
func (q *logQueue) push(a *assertions.Assertion) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, a)
	q.mu.Unlock()
	q.signal()
}

// close stops accepting work and waits until everything pushed so far has
// been logged.
func (q *logQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
	<-q.drained
}

func (q *logQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *logQueue) run() {
	defer close(q.drained)
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, a := range batch {
			q.log(a)
		}
		if closed {
			return
		}
		<-q.wake
	}
}
