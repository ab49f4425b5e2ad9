package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

// RequestMatcher validates the buffered body of an inbound request. It is one
// of Content, JSON, Validator, Schema or JSONPath.
type RequestMatcher interface {
	validate(req requestInfo, body string, r *http.Request) *assertions.Assertion
}

// requestInfo identifies the request being validated in failure messages
type requestInfo struct {
	url    string
	number int
}

// result builds the assertion for one check; failures read "Wrong ...".
func (ri requestInfo) result(method, what string, err error) *assertions.Assertion {
	message := fmt.Sprintf("%q HTTP service request %s, request #%d", ri.url, what, ri.number)
	if err != nil {
		message = "Wrong " + message
	}
	return assertions.New(method, message, err)
}

// Content expects the body to equal body exactly
func Content(body string) RequestMatcher {
	return contentMatcher{expected: body}
}

// JSON expects the body to parse as JSON and deep-equal v once v has been
// through a JSON round trip.
func JSON(v any) RequestMatcher {
	return jsonMatcher{expected: v}
}

// Validator hands the body and raw request to fn; a non-nil error fails the
// request.
func Validator(fn func(body string, r *http.Request) error) RequestMatcher {
	return validatorMatcher{fn: fn}
}

// Schema expects the body to validate against the JSON Schema document
// schema.
func Schema(schema string) RequestMatcher {
	return schemaMatcher{schema: schema}
}

// JSONPath expects the gjson path in the body to deep-equal expected.
func JSONPath(path string, expected any) RequestMatcher {
	return jsonPathMatcher{path: path, expected: expected}
}

type contentMatcher struct {
	expected string
}

func (m contentMatcher) validate(req requestInfo, body string, _ *http.Request) *assertions.Assertion {
	if body == m.expected {
		return req.result("equal", "content", nil)
	}
	diff := textdiff.Unified("expected", "actual", m.expected, body)
	return req.result("equal", "content", &assertions.CheckError{
		Method: "equal",
		Detail: fmt.Sprintf("expected %q, got %q\n%s", m.expected, body, diff),
	})
}

type jsonMatcher struct {
	expected any
}

func (m jsonMatcher) validate(req requestInfo, body string, _ *http.Request) *assertions.Assertion {
	if !gjson.Valid(body) {
		message := fmt.Sprintf("Got non-JSON body while expecting JSON in %q HTTP service request #%d", req.url, req.number)
		return assertions.New(MethodRequest, message, &assertions.CheckError{
			Method: MethodRequest,
			Detail: "non-JSON body while expecting JSON: " + truncate(body, 200),
		})
	}

	expected, err := normalizeJSON(m.expected)
	if err != nil {
		return req.result(MethodDeepEqual, "JSON", fmt.Errorf("encoding expected JSON: %w", err))
	}
	return req.result(MethodDeepEqual, "JSON", deepEqual(expected, gjson.Parse(body).Value()))
}

type validatorMatcher struct {
	fn func(body string, r *http.Request) error
}

func (m validatorMatcher) validate(req requestInfo, body string, r *http.Request) *assertions.Assertion {
	return req.result("requestValidator", "validation", m.fn(body, r))
}

type schemaMatcher struct {
	schema string
}

func (m schemaMatcher) validate(req requestInfo, body string, _ *http.Request) *assertions.Assertion {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(m.schema),
		gojsonschema.NewStringLoader(body),
	)
	if err != nil {
		return req.result("jsonSchema", "schema", fmt.Errorf("schema validation error: %w", err))
	}
	if result.Valid() {
		return req.result("jsonSchema", "schema", nil)
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return req.result("jsonSchema", "schema", &assertions.CheckError{
		Method: "jsonSchema",
		Detail: "schema validation failed: " + strings.Join(errs, "; "),
	})
}

type jsonPathMatcher struct {
	path     string
	expected any
}

func (m jsonPathMatcher) validate(req requestInfo, body string, _ *http.Request) *assertions.Assertion {
	what := fmt.Sprintf("value at %q", m.path)
	result := gjson.Get(body, m.path)
	if !result.Exists() {
		return req.result("jsonPath", what, &assertions.CheckError{
			Method: "jsonPath",
			Detail: fmt.Sprintf("path %q does not exist", m.path),
		})
	}
	expected, err := normalizeJSON(m.expected)
	if err != nil {
		return req.result("jsonPath", what, fmt.Errorf("encoding expected JSON: %w", err))
	}
	return req.result("jsonPath", what, deepEqual(expected, result.Value()))
}

// normalizeJSON turns v into the shapes gjson produces (map[string]any,
// []any, float64, string, bool, nil) so both sides compare structurally.
func normalizeJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return gjson.ParseBytes(data).Value(), nil
}

// deepEqual returns nil when both JSON values are equal
func deepEqual(expected, actual any) error {
	if cmp.Equal(expected, actual) {
		return nil
	}
	return &assertions.CheckError{
		Method: MethodDeepEqual,
		Detail: "mismatch (-expected +actual):\n" + cmp.Diff(expected, actual),
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
