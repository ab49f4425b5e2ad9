package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

func sampleResults() []*Result {
	return []*Result{
		{
			Module: "users.yaml",
			Name:   "passes",
			ID:     "11111111-1111-1111-1111-111111111111",
			List: assertions.NewList([]*assertions.Assertion{
				assertions.New("equal", `"/users" HTTP service request content, request #1`, nil),
			}, 12*time.Millisecond),
		},
		{
			Module: "users.yaml",
			Name:   "fails",
			ID:     "22222222-2222-2222-2222-222222222222",
			List: assertions.NewList([]*assertions.Assertion{
				assertions.New("mockHttpService", "Expected 1 more requests to \"/users\" HTTP service, than actually ran",
					&assertions.CheckError{Method: "mockHttpService", Detail: "Expected 1 more requests to \"/users\" HTTP service, than actually ran"}),
				assertions.New(assertions.MethodError, "", errors.New("listener closed")),
			}, 3*time.Millisecond),
		},
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "console", "JSON", "junit", "tap"} {
		f, err := New(format, &bytes.Buffer{}, false, true)
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := New("html", &bytes.Buffer{}, false, true)
	assert.Error(t, err)
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))
	for _, r := range sampleResults() {
		f.FormatResult(r)
	}
	f.FormatError(errors.New("bad fixture"))

	out := buf.String()
	assert.Contains(t, out, "✓ passes (12ms)")
	assert.Contains(t, out, "✗ fails (3ms)")
	assert.Contains(t, out, `[equal] "/users" HTTP service request content, request #1`)
	assert.Contains(t, out, `→ [mockHttpService] Expected 1 more requests to "/users" HTTP service, than actually ran`)
	assert.Contains(t, out, "→ [error] listener closed")
	assert.Contains(t, out, "2 failed")
	assert.Contains(t, out, "Error: bad fixture")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	for _, r := range sampleResults() {
		f.FormatResult(r)
	}
	require.NoError(t, f.Flush(time.Second))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, JSONSummary{Total: 2, Passed: 1, Failed: 1, Assertions: 3, Failures: 2}, out.Summary)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", out.Tests[1].ID)
	assert.Equal(t, "listener closed", out.Tests[1].Assertions[1].Error)
	assert.Equal(t, float64(1000), out.Duration)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	for _, r := range sampleResults() {
		f.FormatResult(r)
	}
	require.NoError(t, f.Flush(time.Second))

	body := strings.TrimPrefix(buf.String(), "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal([]byte(body), &suites))

	assert.Equal(t, 2, suites.Tests)
	assert.Equal(t, 1, suites.Errors)
	require.Len(t, suites.TestSuites, 1)

	suite := suites.TestSuites[0]
	assert.Equal(t, "users.yaml", suite.Name)
	require.Len(t, suite.TestCases, 2)
	assert.Nil(t, suite.TestCases[0].Failure)
	require.NotNil(t, suite.TestCases[1].Error)
	assert.Contains(t, suite.TestCases[1].Error.Content, "listener closed")
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", suite.TestCases[0].Properties.Properties[0].Value)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	for _, r := range sampleResults() {
		f.FormatResult(r)
	}
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "TAP version 13\n1..2\n"))
	assert.Contains(t, out, "ok 1 - users.yaml > passes\n")
	assert.Contains(t, out, "not ok 2 - users.yaml > fails\n")
	assert.Contains(t, out, `    - "[error] listener closed"`)
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: \"b\""`, escapeYAML(`a: "b"`))
	assert.Equal(t, `"x\ny"`, escapeYAML("x\ny"))
}
