package runner

import (
	"testing"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

// Bind creates a Test reporting to tb. Every failed assertion becomes a
// tb.Errorf and Done runs during tb.Cleanup unless the test called it first.
func Bind(tb testing.TB, testOpts ...TestOption) *Test {
	tb.Helper()

	opts := Options{
		TestDone: func(_ string, list *assertions.List) {
			for _, a := range list.Items {
				if a.Failed() {
					tb.Errorf("%s", describe(a))
				}
			}
		},
	}

	t, err := NewTest(tb.Name(), opts, testOpts...)
	if err != nil {
		tb.Fatalf("creating test: %v", err)
		return nil
	}
	tb.Cleanup(func() {
		t.Done(nil)
	})
	return t
}

func describe(a *assertions.Assertion) string {
	if a.Err == nil || a.Err.Error() == a.Message {
		return "[" + a.Method + "] " + a.Message
	}
	return "[" + a.Method + "] " + a.Message + "\n" + a.Err.Error()
}
