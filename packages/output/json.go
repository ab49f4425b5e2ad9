package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Tests    []JSONTest  `json:"tests"`
	Errors   []string    `json:"errors,omitempty"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the test summary
type JSONSummary struct {
	Total      int `json:"total"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Assertions int `json:"assertions"`
	Failures   int `json:"failures"`
}

// JSONTest represents a single test result
type JSONTest struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Module     string          `json:"module,omitempty"`
	Passed     bool            `json:"passed"`
	Duration   float64         `json:"duration"`
	Assertions []JSONAssertion `json:"assertions"`
}

// JSONAssertion represents an assertion result
type JSONAssertion struct {
	Method  string `json:"method"`
	Message string `json:"message"`
	Passed  bool   `json:"passed"`
	Error   string `json:"error,omitempty"`
}

// JSONFormatter formats test results as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []JSONTest
	errors  []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONTest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *Result) {
	test := JSONTest{
		ID:         result.ID,
		Name:       result.Name,
		Module:     result.Module,
		Passed:     result.Passed(),
		Assertions: make([]JSONAssertion, 0),
	}

	if result.List != nil {
		test.Duration = float64(result.List.DurationMs())
		for _, a := range result.List.Items {
			ja := JSONAssertion{
				Method:  a.Method,
				Message: a.Message,
				Passed:  a.Passed(),
			}
			if a.Err != nil {
				ja.Error = a.Err.Error()
			}
			test.Assertions = append(test.Assertions, ja)
		}
	}

	f.results = append(f.results, test)
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary JSONSummary
	for _, t := range f.results {
		summary.Total++
		if t.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		for _, a := range t.Assertions {
			summary.Assertions++
			if !a.Passed {
				summary.Failures++
			}
		}
	}

	output := JSONOutput{
		Summary:  summary,
		Tests:    f.results,
		Errors:   f.errors,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
