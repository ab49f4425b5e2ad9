package assertions

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/stretchr/testify/assert"
)

// CheckError describes why a check failed
type CheckError struct {
	Method string
	Detail string
}

func (e *CheckError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s failed", e.Method)
	}
	return e.Detail
}

// capture is an assert.TestingT that keeps failures instead of reporting them.
type capture struct {
	messages []string
}

func (c *capture) Errorf(format string, args ...any) {
	c.messages = append(c.messages, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (c *capture) failed() bool {
	return len(c.messages) > 0
}

// Check is a testify assertion bound to its arguments.
type Check func(t assert.TestingT) bool

// Run evaluates check and converts its outcome into an Assertion.
func Run(method, message string, check Check) *Assertion {
	c := &capture{}
	ok := check(c)
	if ok && !c.failed() {
		return New(method, message, nil)
	}
	return New(method, message, &CheckError{
		Method: method,
		Detail: strings.Join(c.messages, "\n"),
	})
}

// Ok checks that value is truthy
func Ok(value any, message string) *Assertion {
	return Run("ok", message, func(t assert.TestingT) bool {
		return assert.True(t, Truthy(value), "%#v is not truthy", value)
	})
}

// Equals checks loose equality, converting actual to expected's type.
func Equals(actual, expected any, message string) *Assertion {
	return Run("equals", message, func(t assert.TestingT) bool {
		return assert.EqualValues(t, expected, actual)
	})
}

// NotEquals is the negation of Equals
func NotEquals(actual, expected any, message string) *Assertion {
	return Run("notEqual", message, func(t assert.TestingT) bool {
		return assert.NotEqualValues(t, expected, actual)
	})
}

// Same checks deep equality
func Same(actual, expected any, message string) *Assertion {
	return Run("same", message, func(t assert.TestingT) bool {
		return assert.Equal(t, expected, actual)
	})
}

// NotSame is the negation of Same
func NotSame(actual, expected any, message string) *Assertion {
	return Run("notDeepEqual", message, func(t assert.TestingT) bool {
		return assert.NotEqual(t, expected, actual)
	})
}

// StrictEqual checks deep equality and identical types
func StrictEqual(actual, expected any, message string) *Assertion {
	return Run("strictEqual", message, func(t assert.TestingT) bool {
		return assert.Exactly(t, expected, actual)
	})
}

// NotStrictEqual is the negation of StrictEqual
func NotStrictEqual(actual, expected any, message string) *Assertion {
	return Run("notStrictEqual", message, func(t assert.TestingT) bool {
		same := reflect.TypeOf(actual) == reflect.TypeOf(expected) && assert.ObjectsAreEqual(expected, actual)
		return assert.False(t, same, "expected %#v and %#v to differ", expected, actual)
	})
}

// Contains checks that s contains the element (see assert.Contains)
func Contains(s, contains any, message string) *Assertion {
	return Run("contains", message, func(t assert.TestingT) bool {
		return assert.Contains(t, s, contains)
	})
}

// Matches checks that str matches the regular expression rx
func Matches(str any, rx any, message string) *Assertion {
	return Run("matches", message, func(t assert.TestingT) bool {
		return assert.Regexp(t, rx, str)
	})
}

// Throws checks that fn panics
func Throws(fn func(), message string) *Assertion {
	return Run("throws", message, func(t assert.TestingT) bool {
		return assert.Panics(t, fn)
	})
}

// DoesNotThrow checks that fn returns normally
func DoesNotThrow(fn func(), message string) *Assertion {
	return Run("doesNotThrow", message, func(t assert.TestingT) bool {
		return assert.NotPanics(t, fn)
	})
}

// IfError fails when err is non-nil
func IfError(err error, message string) *Assertion {
	return Run("ifError", message, func(t assert.TestingT) bool {
		return assert.NoError(t, err)
	})
}

// Truthy mirrors the loose truthiness used by Ok: nil, false, zero numbers,
// empty strings and nil pointers are falsy.
func Truthy(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}
