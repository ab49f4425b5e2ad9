package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite groups the tests of one module
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test case
type JUnitTestCase struct {
	XMLName    xml.Name         `xml:"testcase"`
	Name       string           `xml:"name,attr"`
	ClassName  string           `xml:"classname,attr"`
	Time       float64          `xml:"time,attr"`
	Properties *JUnitProperties `xml:"properties,omitempty"`
	Failure    *JUnitFailure    `xml:"failure,omitempty"`
	Error      *JUnitError      `xml:"error,omitempty"`
}

type JUnitProperties struct {
	Properties []JUnitProperty `xml:"property"`
}

type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// JUnitFailure represents a test failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a test error
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats test results as JUnit XML
type JUnitFormatter struct {
	writer     io.Writer
	testSuites []JUnitTestSuite
	index      map[string]int
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		testSuites: make([]JUnitTestSuite, 0),
		index:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) suite(name string) *JUnitTestSuite {
	if i, ok := f.index[name]; ok {
		return &f.testSuites[i]
	}
	f.testSuites = append(f.testSuites, JUnitTestSuite{
		Name:      name,
		Timestamp: time.Now().Format(time.RFC3339),
		TestCases: make([]JUnitTestCase, 0),
	})
	f.index[name] = len(f.testSuites) - 1
	return &f.testSuites[len(f.testSuites)-1]
}

func (f *JUnitFormatter) FormatResult(result *Result) {
	module := result.Module
	if module == "" {
		module = "hitmock"
	}
	suite := f.suite(module)

	tc := JUnitTestCase{
		Name:      result.Name,
		ClassName: module,
	}
	if result.ID != "" {
		tc.Properties = &JUnitProperties{
			Properties: []JUnitProperty{{Name: "id", Value: result.ID}},
		}
	}

	if result.List != nil {
		tc.Time = result.List.Duration.Seconds()
		suite.Time += tc.Time

		// Raised errors are reported as JUnit errors; everything else is a failure
		var failures, errs strings.Builder
		var failureCount, errorCount int
		for _, a := range result.List.Items {
			if a.Passed() {
				continue
			}
			head, detail := failureText(a)
			target := &failures
			if a.Method == assertions.MethodError {
				target = &errs
				errorCount++
			} else {
				failureCount++
			}
			fmt.Fprintln(target, head)
			if detail != "" {
				fmt.Fprintln(target, detail)
			}
		}

		if errorCount > 0 {
			suite.Errors++
			tc.Error = &JUnitError{
				Message: fmt.Sprintf("%d error(s)", errorCount),
				Type:    "Error",
				Content: errs.String(),
			}
		} else if failureCount > 0 {
			suite.Failures++
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%d assertion(s) failed", failureCount),
				Type:    "AssertionError",
				Content: failures.String(),
			}
		}
	}

	suite.Tests++
	suite.TestCases = append(suite.TestCases, tc)
}

func (f *JUnitFormatter) FormatError(err error) {
	suite := f.suite("hitmock")
	suite.Tests++
	suite.Errors++
	suite.TestCases = append(suite.TestCases, JUnitTestCase{
		Name:      "setup",
		ClassName: "hitmock",
		Error: &JUnitError{
			Message: err.Error(),
			Type:    "Error",
		},
	})
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	var totalTests, totalFailures, totalErrors int
	for _, suite := range f.testSuites {
		totalTests += suite.Tests
		totalFailures += suite.Failures
		totalErrors += suite.Errors
	}

	suites := JUnitTestSuites{
		Name:       "hitmock",
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
