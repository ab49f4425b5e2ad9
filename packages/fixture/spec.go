package fixture

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/hitmock/packages/mock"
)

// Defaults are applied to every exchange before its own settings
type Defaults struct {
	Headers map[string]string
	Charset string
}

// Specs builds the mock specs for route
func (r Route) Specs(defaults Defaults) ([]mock.HTTPSpec, error) {
	specs := make([]mock.HTTPSpec, 0, len(r.Expect))
	for i, ex := range r.Expect {
		spec, err := ex.Spec(defaults)
		if err != nil {
			return nil, fmt.Errorf("%s expect[%d]: %w", r.URL, i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Spec converts the exchange into a mock.Exchange
func (e Exchange) Spec(defaults Defaults) (mock.HTTPSpec, error) {
	if e.Response == nil {
		return nil, mock.ErrResponseMissing
	}

	body, err := e.Response.body()
	if err != nil {
		return nil, err
	}

	ex := mock.Exchange{
		Response:   body,
		StatusCode: e.Status,
		Charset:    defaults.Charset,
	}
	if e.Charset != "" {
		ex.Charset = e.Charset
	}

	if len(defaults.Headers) > 0 || len(e.Headers) > 0 {
		ex.Headers = make(map[string]string, len(defaults.Headers)+len(e.Headers))
		for k, v := range defaults.Headers {
			ex.Headers[k] = v
		}
		for k, v := range e.Headers {
			ex.Headers[k] = v
		}
	}

	if e.Request != nil {
		matcher, err := e.Request.matcher()
		if err != nil {
			return nil, err
		}
		ex.Request = matcher
	}

	if e.Delay != "" {
		delay, err := time.ParseDuration(e.Delay)
		if err != nil {
			return nil, fmt.Errorf("invalid delay %q: %w", e.Delay, err)
		}
		ex.SideEffect = sleep(delay)
	}

	return ex, nil
}

// sleep waits d or until the request is abandoned
func sleep(d time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Response) body() (*mock.Body, error) {
	var bodies []*mock.Body
	if r.Text != nil {
		bodies = append(bodies, mock.Text(*r.Text))
	}
	if r.HTML != nil {
		bodies = append(bodies, mock.HTML(*r.HTML))
	}
	if r.XML != nil {
		bodies = append(bodies, mock.XML(*r.XML))
	}
	if r.JSON != nil {
		bodies = append(bodies, mock.JSONBody(r.JSON))
	}
	if r.Binary != nil {
		data, err := base64.StdEncoding.DecodeString(*r.Binary)
		if err != nil {
			return nil, fmt.Errorf("binary response is not base64: %w", err)
		}
		bodies = append(bodies, mock.Binary(data))
	}

	switch len(bodies) {
	case 0:
		return nil, mock.ErrResponseMissing
	case 1:
		return bodies[0], nil
	default:
		return nil, errors.New("response must set exactly one of text, html, xml, json, binary")
	}
}

func (r *Request) matcher() (mock.RequestMatcher, error) {
	var matchers []mock.RequestMatcher
	if r.Content != nil {
		matchers = append(matchers, mock.Content(*r.Content))
	}
	if r.JSON != nil {
		matchers = append(matchers, mock.JSON(r.JSON))
	}
	if r.Schema != nil {
		schema, ok := r.Schema.(string)
		if !ok {
			data, err := json.Marshal(r.Schema)
			if err != nil {
				return nil, fmt.Errorf("invalid schema: %w", err)
			}
			schema = string(data)
		}
		matchers = append(matchers, mock.Schema(schema))
	}
	if r.JSONPath != nil {
		if r.JSONPath.Path == "" {
			return nil, errors.New("jsonpath requires a path")
		}
		matchers = append(matchers, mock.JSONPath(r.JSONPath.Path, r.JSONPath.Value))
	}

	switch len(matchers) {
	case 0:
		return nil, errors.New("request must set one of content, json, schema, jsonpath")
	case 1:
		return matchers[0], nil
	default:
		return nil, errors.New("request must set only one of content, json, schema, jsonpath")
	}
}
