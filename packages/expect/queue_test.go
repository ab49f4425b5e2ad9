package expect

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestQueue_ConsumeInOrder(t *testing.T) {
	q := NewQueue("greet", "Alice", "Bob")

	assert.Equal(t, "greet", q.Name())
	assert.Equal(t, 2, q.Remaining())

	first, ok := q.Consume()
	require.True(t, ok)
	assert.Equal(t, "Alice", first)

	second, ok := q.Consume()
	require.True(t, ok)
	assert.Equal(t, "Bob", second)

	_, ok = q.Consume()
	assert.False(t, ok)
	assert.True(t, q.Empty())
}

func TestQueue_Peek(t *testing.T) {
	q := NewQueue[int]("f")
	_, ok := q.Peek()
	assert.False(t, ok)

	q.Replace(7)
	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 7, head)
	assert.Equal(t, 1, q.Remaining())
}

func TestQueue_ReplaceKeepsIdentity(t *testing.T) {
	q := NewQueue("f", 1, 2, 3)
	held := q

	_, _ = q.Consume()
	discarded := q.Replace(10, 20)

	assert.Equal(t, 2, discarded)
	assert.Equal(t, []int{10, 20}, held.Entries())
}

func TestQueue_EntriesIsACopy(t *testing.T) {
	q := NewQueue("f", 1, 2)
	entries := q.Entries()
	entries[0] = 99

	head, _ := q.Peek()
	assert.Equal(t, 1, head)
}

func TestQueue_ConcurrentConsume(t *testing.T) {
	const n = 200
	entries := make([]int, n)
	for i := range entries {
		entries[i] = i
	}
	q := NewQueue("f", entries...)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]bool)
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok := q.Consume()
				if !ok {
					return
				}
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	assert.True(t, q.Empty())
}

func TestQueue_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.SliceOf(rapid.Int()).Draw(t, "initial")
		k := rapid.IntRange(0, len(initial)).Draw(t, "consumed")
		replacement := rapid.SliceOf(rapid.Int()).Draw(t, "replacement")

		q := NewQueue("prop", initial...)
		for i := 0; i < k; i++ {
			v, ok := q.Consume()
			if !ok {
				t.Fatalf("queue exhausted after %d of %d", i, len(initial))
			}
			if v != initial[i] {
				t.Fatalf("entry %d: expected %d, got %d", i, initial[i], v)
			}
		}

		if got := q.Remaining(); got != len(initial)-k {
			t.Fatalf("remaining: expected %d, got %d", len(initial)-k, got)
		}

		discarded := q.Replace(replacement...)
		if discarded != len(initial)-k {
			t.Fatalf("discarded: expected %d, got %d", len(initial)-k, discarded)
		}
		if got := q.Remaining(); got != len(replacement) {
			t.Fatalf("after replace: expected %d, got %d", len(replacement), got)
		}
		for i, want := range replacement {
			v, ok := q.Consume()
			if !ok || v != want {
				t.Fatalf("replacement %d: expected %d, got %d (ok=%v)", i, want, v, ok)
			}
		}
	})
}
