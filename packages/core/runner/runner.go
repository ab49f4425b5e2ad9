package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
	"github.com/abdul-hamid-achik/hitmock/packages/mock"
)

const (
	// DefaultTimeout bounds how long a case may run before Done is forced
	DefaultTimeout = 30 * time.Second
)

// Case is one named test function of a module. Fn must eventually call
// t.Done, possibly from another goroutine.
type Case struct {
	Name string
	Fn   func(t *Test)
}

// Config controls how a Runner executes a module
type Config struct {
	Timeout    time.Duration
	NameFilter string
	Bail       bool
	Service    *mock.Service
}

// Runner runs the cases of a module one after another
type Runner struct {
	config *Config
	opts   Options
}

// NewRunner creates a runner reporting through opts
func NewRunner(cfg *Config, opts Options) (*Runner, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	return &Runner{
		config: cfg,
		opts:   opts,
	}, nil
}

// RunModule runs cases with a default runner
func RunModule(ctx context.Context, name string, cases []Case, opts Options) (*assertions.List, error) {
	r, err := NewRunner(nil, opts)
	if err != nil {
		return nil, err
	}
	return r.RunModule(ctx, name, cases)
}

// RunModule runs cases one after another and returns the merged assertion
// list of every case that ran. It stops early when ctx is cancelled, or on
// the first failing case when Bail is set.
func (r *Runner) RunModule(ctx context.Context, name string, cases []Case) (*assertions.List, error) {
	r.opts.ModuleStart(name)

	var lists []*assertions.List
	var runErr error
	for _, c := range cases {
		if !matchesPattern(c.Name, r.config.NameFilter) {
			continue
		}

		list, err := r.runCase(ctx, c)
		if list != nil {
			lists = append(lists, list)
		}
		if err != nil {
			runErr = err
			break
		}
		if r.config.Bail && list.Failures() > 0 {
			break
		}
	}

	merged := assertions.Merge(lists...)
	r.opts.ModuleDone(name, merged)
	return merged, runErr
}

func (r *Runner) runCase(ctx context.Context, c Case) (*assertions.List, error) {
	r.opts.TestStart(c.Name)

	var testOpts []TestOption
	if r.config.Service != nil {
		testOpts = append(testOpts, WithService(r.config.Service))
	}
	t, err := NewTest(c.Name, r.opts, testOpts...)
	if err != nil {
		return nil, err
	}
	r.opts.TestReady(t)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				t.Done(fmt.Errorf("panic in %q: %v", c.Name, p))
			}
		}()
		c.Fn(t)
	}()

	timeout := r.config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.Finished():
		return t.Done(nil), nil
	case <-timer.C:
		return t.Done(fmt.Errorf("%q after %s: %w", c.Name, timeout, ErrTestTimeout)), nil
	case <-ctx.Done():
		return t.Done(ctx.Err()), ctx.Err()
	}
}

// matchesPattern supports a leading and/or trailing "*" wildcard
func matchesPattern(name, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	prefix := strings.HasSuffix(pattern, "*")
	suffix := strings.HasPrefix(pattern, "*")
	core := strings.TrimSuffix(strings.TrimPrefix(pattern, "*"), "*")

	switch {
	case prefix && suffix:
		return strings.Contains(name, core)
	case suffix:
		return strings.HasSuffix(name, core)
	case prefix:
		return strings.HasPrefix(name, core)
	default:
		return name == pattern
	}
}
