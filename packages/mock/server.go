// Package mock implements hitmock's mocked collaborators: function mocks,
// HTTP mocks and the in-process HTTP stub service that routes requests to
// them.
package mock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultAddr is the loopback address the stub listens on unless told
// otherwise
const DefaultAddr = "127.0.0.1:3000"

// MaxBodySize caps the request body read before dispatch
const MaxBodySize = 10 << 20

// State is the lifecycle state of a Service
type State int

const (
	StateUninitialized State = iota
	StateListening
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Service is the HTTP stub dispatcher. It owns at most one listener, started
// lazily by Register and torn down by Stop. Routes survive Stop and are
// served again when the service restarts.
type Service struct {
	router          *Router
	addr            string
	verbose         bool
	logger          *log.Logger
	shutdownTimeout time.Duration

	mu       sync.Mutex
	state    State
	server   *http.Server
	listener net.Listener
	served   chan struct{}
}

// Option is a functional option for Service
type Option func(*Service)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(s *Service) {
		s.addr = addr
	}
}

// WithVerbose logs every handled request
func WithVerbose(verbose bool) Option {
	return func(s *Service) {
		s.verbose = verbose
	}
}

// WithLogger sets the logger used for operational messages
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithShutdownTimeout bounds how long Stop waits for in-flight requests
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.shutdownTimeout = timeout
	}
}

// NewService creates a stopped-by-default stub service
func NewService(opts ...Option) *Service {
	s := &Service{
		router:          NewRouter(),
		addr:            DefaultAddr,
		logger:          log.Default(),
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	defaultOnce    sync.Once
	defaultService *Service
)

// Default returns the process-wide service listening on DefaultAddr
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService = NewService()
	})
	return defaultService
}

// Register routes key to handler, starting the listener if it is not
// already running. The route is dropped again when the listener cannot
// start.
func (s *Service) Register(key string, handler RouteHandler) error {
	s.router.AddRoute(key, handler)
	if err := s.Start(); err != nil {
		s.router.RemoveRoute(key)
		return err
	}
	return nil
}

// Unregister removes the route for key
func (s *Service) Unregister(key string) {
	s.router.RemoveRoute(key)
}

// Routes returns the registered routes
func (s *Service) Routes() []*Route {
	return s.router.Routes()
}

// State returns the lifecycle state
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the bound address while listening, or the configured one
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// URL returns the base URL of the service
func (s *Service) URL() string {
	return "http://" + s.Addr()
}

// Start opens the listener. It is a no-op while already listening.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateListening {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	served := make(chan struct{})

	go func() {
		defer close(served)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("Mock http server error: %v", err)
		}
	}()

	s.server = server
	s.listener = ln
	s.served = served
	s.state = StateListening

	if s.verbose {
		s.logger.Printf("Mock http server running at http://%s", ln.Addr())
	}
	return nil
}

// Stop shuts the listener down, waiting up to the shutdown timeout for
// in-flight requests. It is a no-op unless listening.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateListening {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if err != nil {
		_ = s.server.Close()
		err = fmt.Errorf("failed to stop mock http server: %w", err)
	}
	<-s.served

	s.server = nil
	s.listener = nil
	s.served = nil
	s.state = StateStopped
	return err
}

// ServeHTTP routes the request, buffers its body and hands it to the route
// handler.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	target := r.RequestURI
	if target == "" {
		target = r.URL.RequestURI()
	}

	route, ok := s.router.Match(target)
	if !ok {
		s.logger.Printf("Http mock got request to %s", target)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "Not found\n")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		s.logger.Printf("%s %s -> failed to read body: %v", r.Method, target, err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	if err := route.Handler(w, r, string(body)); err != nil {
		s.logger.Printf("%s %s -> %v", r.Method, target, err)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, err.Error()+"\n")
		return
	}

	if s.verbose {
		s.logger.Printf("%s %s -> %s (%s)", r.Method, target, route.Key, time.Since(start))
	}
}
