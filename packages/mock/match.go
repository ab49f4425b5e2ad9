package mock

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

// Matcher is a flexible expected value. Gomega matchers satisfy it, so
// Call{Arguments: []any{gomega.HaveLen(3)}} works as expected.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks actual against expected. Matchers decide for
// themselves; anything else is compared with deep equality.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}
		if !success {
			return false, matcher.FailureMessage(actual)
		}
		return true, ""
	}

	if assert.ObjectsAreEqual(expected, actual) {
		return true, ""
	}
	return false, fmt.Sprintf("expected %#v, got %#v", expected, actual)
}
