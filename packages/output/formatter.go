package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

// Result is one finished test as reported by the formatters
type Result struct {
	Module string
	Name   string
	ID     string
	List   *assertions.List
}

// Passed reports whether the test recorded no failures
func (r *Result) Passed() bool {
	return r.List == nil || r.List.Failures() == 0
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *Result)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// New creates the formatter for format writing to w
func New(format string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want console, json, junit or tap)", format)
	}
}

// failureText renders a failed assertion on one line plus optional detail
func failureText(a *assertions.Assertion) (string, string) {
	head := fmt.Sprintf("[%s] %s", a.Method, a.Message)
	if a.Err == nil || a.Err.Error() == a.Message {
		return head, ""
	}
	return head, a.Err.Error()
}
