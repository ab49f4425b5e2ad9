package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
	"github.com/abdul-hamid-achik/hitmock/packages/core/config"
	"github.com/abdul-hamid-achik/hitmock/packages/core/runner"
	"github.com/abdul-hamid-achik/hitmock/packages/fixture"
	"github.com/abdul-hamid-achik/hitmock/packages/mock"
	"github.com/abdul-hamid-achik/hitmock/packages/output"
	"github.com/fsnotify/fsnotify"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond

	// URLEnv carries the stub base URL to the --exec command
	URLEnv = "HITMOCK_URL"
)

// session serves a set of fixtures as one test. Every route becomes an HTTP
// mock; Done runs when serving stops.
type session struct {
	cfg      *config.Config
	paths    []string
	files    []*fixture.File
	defaults fixture.Defaults
	opts     []fixture.Option
	logger   *log.Logger

	// ready, when set, is called with the base URL once every route is live
	ready func(url string)

	test   *runner.Test
	mocks  map[string]*mock.HTTPMock
	origin map[string]string // route URL -> fixture path
}

func newSession(cfg *config.Config, paths []string, files []*fixture.File, logger *log.Logger, opts ...fixture.Option) (*session, error) {
	origin := make(map[string]string)
	for _, f := range files {
		path := filepath.Clean(f.Path)
		for _, route := range f.Routes {
			if prev, ok := origin[route.URL]; ok {
				return nil, fmt.Errorf("route %q declared in both %s and %s", route.URL, prev, path)
			}
			origin[route.URL] = path
		}
	}

	return &session{
		cfg:   cfg,
		paths: paths,
		files: files,
		defaults: fixture.Defaults{
			Headers: cfg.Headers,
			Charset: cfg.Charset,
		},
		opts:   opts,
		logger: logger,
		mocks:  make(map[string]*mock.HTTPMock),
		origin: origin,
	}, nil
}

func (s *session) log(a *assertions.Assertion) {
	if a.Failed() {
		s.logger.Printf("FAIL [%s] %s", a.Method, a.Message)
		return
	}
	if s.cfg.GetVerbose() {
		s.logger.Printf("ok [%s] %s", a.Method, a.Message)
	}
}

// run serves until ctx ends, the configured duration passes or the exec
// command exits, then reconciles the test.
func (s *session) run(ctx context.Context) (*output.Result, error) {
	service := mock.NewService(
		mock.WithAddr(s.cfg.Addr),
		mock.WithVerbose(s.cfg.GetVerbose()),
		mock.WithLogger(s.logger),
		mock.WithShutdownTimeout(time.Duration(s.cfg.ShutdownTimeout)*time.Millisecond),
	)

	test, err := runner.NewTest("serve", runner.Options{
		TestDone: func(string, *assertions.List) {},
		Log:      s.log,
	}, runner.WithService(service))
	if err != nil {
		return nil, err
	}
	s.test = test

	for _, f := range s.files {
		for _, route := range f.Routes {
			if err := s.mount(route); err != nil {
				test.Done(err)
				return nil, err
			}
		}
	}

	s.logger.Printf("Serving %d routes from %d files at %s", len(s.mocks), len(s.files), service.URL())
	if s.ready != nil {
		s.ready(service.URL())
	}

	if s.cfg.Duration > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, time.Duration(s.cfg.Duration)*time.Millisecond)
		defer cancelTimeout()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watched := make(chan struct{})
	if s.cfg.GetWatch() {
		go func() {
			defer close(watched)
			if err := s.watch(ctx); err != nil {
				s.logger.Printf("watch: %v", err)
			}
		}()
	} else {
		close(watched)
	}

	var runErr error
	if s.cfg.Exec != "" {
		runErr = s.exec(ctx)
		cancel()
	}
	<-ctx.Done()
	<-watched

	list := test.Done(runErr)
	return &output.Result{
		Module: strings.Join(s.paths, ", "),
		Name:   test.Name,
		ID:     test.ID,
		List:   list,
	}, nil
}

func (s *session) mount(route fixture.Route) error {
	specs, err := route.Specs(s.defaults)
	if err != nil {
		return err
	}
	m, err := s.test.MockHTTP(route.URL, specs...)
	if err != nil {
		return err
	}
	s.mocks[route.URL] = m
	return nil
}

func (s *session) exec(ctx context.Context) error {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Millisecond)
		defer cancel()
	}

	env := []string{URLEnv + "=" + s.test.Service().URL()}
	result := runner.RunShell(ctx, s.cfg.Exec, "", env, false)
	if result.Output != "" {
		fmt.Fprint(s.logger.Writer(), result.Output)
	}
	if s.cfg.GetVerbose() {
		s.logger.Printf("exec %q finished in %s", result.Command, result.Duration)
	}
	if !result.Passed {
		return result.Error
	}
	return nil
}

// watch reloads fixtures as they change until ctx ends
func (s *session) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	known := make(map[string]bool)
	for _, f := range s.files {
		path := filepath.Clean(f.Path)
		known[path] = true
		dir := filepath.Dir(path)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	s.logger.Printf("Watching for fixture changes... (press Ctrl+C to stop)")

	// Debounce: collect changed paths until the timer fires
	var debounce *time.Timer
	var fire <-chan time.Time
	changed := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if !known[path] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			changed[path] = true
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(WatchDebounceDelay)
			fire = debounce.C

		case <-fire:
			fire = nil
			for path := range changed {
				s.reload(path)
			}
			changed = make(map[string]bool)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Printf("watcher error: %v", err)
		}
	}
}

// reload re-reads path and steps the mocks it declares. Routes that
// disappeared from the file keep serving with an empty queue.
func (s *session) reload(path string) {
	f, err := fixture.ParseFile(path, s.opts...)
	if err != nil {
		s.logger.Printf("Ignoring change to %s: %v", path, err)
		return
	}
	s.logger.Printf("Fixture changed: %s", path)

	seen := make(map[string]bool)
	for _, route := range f.Routes {
		seen[route.URL] = true
		if owner, ok := s.origin[route.URL]; ok && owner != path {
			s.logger.Printf("Ignoring route %q in %s: declared in %s", route.URL, path, owner)
			continue
		}

		if m, ok := s.mocks[route.URL]; ok {
			specs, err := route.Specs(s.defaults)
			if err != nil {
				s.logger.Printf("Ignoring route %q in %s: %v", route.URL, path, err)
				continue
			}
			m.Step(specs...)
			continue
		}

		if err := s.mount(route); err != nil {
			s.logger.Printf("Ignoring route %q in %s: %v", route.URL, path, err)
			continue
		}
		s.origin[route.URL] = path
	}

	for url, owner := range s.origin {
		if owner == path && !seen[url] {
			s.mocks[url].Step()
		}
	}
}
