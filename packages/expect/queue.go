// Package expect provides the ordered expectation queue bound to one mocked
// collaborator for the lifetime of one test.
//
// Entries are consumed from the front as matching invocations arrive. Replace
// swaps all remaining entries for a new ordered sequence without changing the
// queue's identity, so every holder of the *Queue observes the new contents.
package expect

import (
	"sync"
)

// Queue is an ordered, consumable list of expectations. It is safe for
// concurrent use.
type Queue[S any] struct {
	mu      sync.Mutex
	name    string
	entries []S
}

// NewQueue creates a queue for the collaborator called name
func NewQueue[S any](name string, entries ...S) *Queue[S] {
	q := &Queue[S]{name: name}
	q.entries = append(make([]S, 0, len(entries)), entries...)
	return q
}

// Name returns the collaborator name the queue is bound to
func (q *Queue[S]) Name() string {
	return q.name
}

// Consume removes and returns the head entry. ok is false when the queue is
// empty.
func (q *Queue[S]) Consume() (entry S, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return entry, false
	}
	entry = q.entries[0]
	var zero S
	q.entries[0] = zero
	q.entries = q.entries[1:]
	return entry, true
}

// Peek returns the head entry without consuming it
func (q *Queue[S]) Peek() (entry S, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return entry, false
	}
	return q.entries[0], true
}

// Remaining returns the number of unconsumed entries
func (q *Queue[S]) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Empty reports whether every entry was consumed
func (q *Queue[S]) Empty() bool {
	return q.Remaining() == 0
}

// Replace discards all unconsumed entries and installs entries in their
// place. It returns how many entries were discarded.
func (q *Queue[S]) Replace(entries ...S) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	discarded := len(q.entries)
	q.entries = append(make([]S, 0, len(entries)), entries...)
	return discarded
}

// Entries returns a copy of the unconsumed entries in order
func (q *Queue[S]) Entries() []S {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]S, len(q.entries))
	copy(out, q.entries)
	return out
}
