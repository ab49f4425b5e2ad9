package expect

// Verifier is implemented by every mock that owns a queue. Verify reports
// the number of unconsumed expectations and records a failure when it is
// non-zero.
type Verifier interface {
	Name() string
	Verify() int
}
