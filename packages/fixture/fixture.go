// Package fixture reads declarative HTTP expectations from YAML or JSON
// files and turns them into mock specs the stub service can serve.
//
//	routes:
//	  - url: /users?page=1
//	    expect:
//	      - request: {json: {name: Ada}}
//	        response: {json: {id: 1}}
//	        status: 201
//	        delay: 50ms
//	        headers: {X-Region: "{{region}}", X-Build: "{{$BUILD_ID}}"}
//
// {{name}} placeholders are filled from WithVars and {{$NAME}} from the
// process environment before the document is decoded.
package fixture

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is one parsed fixture file
type File struct {
	Path   string  `yaml:"-" json:"-"`
	Routes []Route `yaml:"routes" json:"routes"`
}

// Route is the ordered list of exchanges expected on one route key
type Route struct {
	URL    string     `yaml:"url" json:"url"`
	Expect []Exchange `yaml:"expect" json:"expect"`
}

// Exchange is one expected request and the response that answers it
type Exchange struct {
	Request  *Request          `yaml:"request,omitempty" json:"request,omitempty"`
	Response *Response         `yaml:"response,omitempty" json:"response,omitempty"`
	Status   int               `yaml:"status,omitempty" json:"status,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Charset  string            `yaml:"charset,omitempty" json:"charset,omitempty"`
	Delay    string            `yaml:"delay,omitempty" json:"delay,omitempty"`
}

// Request declares how the request body is validated. At most one field may
// be set.
type Request struct {
	Content  *string    `yaml:"content,omitempty" json:"content,omitempty"`
	JSON     any        `yaml:"json,omitempty" json:"json,omitempty"`
	Schema   any        `yaml:"schema,omitempty" json:"schema,omitempty"`
	JSONPath *PathMatch `yaml:"jsonpath,omitempty" json:"jsonpath,omitempty"`
}

// PathMatch expects the value at a gjson path
type PathMatch struct {
	Path  string `yaml:"path" json:"path"`
	Value any    `yaml:"value" json:"value"`
}

// Response declares the response body. Exactly one field must be set.
type Response struct {
	Text   *string `yaml:"text,omitempty" json:"text,omitempty"`
	HTML   *string `yaml:"html,omitempty" json:"html,omitempty"`
	XML    *string `yaml:"xml,omitempty" json:"xml,omitempty"`
	JSON   any     `yaml:"json,omitempty" json:"json,omitempty"`
	Binary *string `yaml:"binary,omitempty" json:"binary,omitempty"` // base64
}

// Parse expands placeholders in a fixture document, decodes it and
// validates it. JSON documents are accepted as YAML.
func Parse(data []byte, path string, opts ...Option) (*File, error) {
	data = newReader(opts).expand(data, path)

	f := &File{Path: path}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseFile reads and parses the fixture at path
func ParseFile(path string, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path, opts...)
}

// ValidationError lists every problem found in a fixture file
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fixture %s:\n  %s", e.Path, strings.Join(e.Problems, "\n  "))
}

// Validate checks the file without building any spec
func (f *File) Validate() error {
	var problems []string
	seen := make(map[string]bool)

	if len(f.Routes) == 0 {
		problems = append(problems, "no routes declared")
	}

	for i, route := range f.Routes {
		where := fmt.Sprintf("routes[%d]", i)
		if route.URL == "" {
			problems = append(problems, where+": url is required")
		} else if seen[route.URL] {
			problems = append(problems, fmt.Sprintf("%s: duplicate url %q", where, route.URL))
		}
		seen[route.URL] = true

		for j, ex := range route.Expect {
			if _, err := ex.Spec(Defaults{}); err != nil {
				problems = append(problems, fmt.Sprintf("%s.expect[%d]: %v", where, j, err))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Path: f.Path, Problems: problems}
	}
	return nil
}

// Expectations returns the total number of exchanges declared in the file
func (f *File) Expectations() int {
	n := 0
	for _, route := range f.Routes {
		n += len(route.Expect)
	}
	return n
}
