package mock

import (
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(
		WithAddr("127.0.0.1:0"),
		WithLogger(log.New(io.Discard, "", 0)),
	)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestService_Lifecycle(t *testing.T) {
	s := newTestService(t)
	assert.Equal(t, StateUninitialized, s.State())

	c := assertions.NewCollector()
	m := NewHTTPMock("/greet", c, Exchange{Response: Text("hello")})
	require.NoError(t, s.Register("/greet", m.Serve))
	assert.Equal(t, StateListening, s.State())

	code, body := get(t, s.URL()+"/greet?name=alice")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello", body)
	assert.Equal(t, 0, m.Remaining())

	require.NoError(t, s.Stop())
	assert.Equal(t, StateStopped, s.State())
	assert.Len(t, s.Routes(), 1)
	assert.Equal(t, "stopped", s.State().String())
}

func TestService_Routing(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.Start())

	code, body := get(t, s.URL()+"/nowhere")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found\n", body)

	require.NoError(t, s.Register(Wildcard, func(w http.ResponseWriter, r *http.Request, body string) error {
		_, _ = io.WriteString(w, "any "+r.URL.Path)
		return nil
	}))
	code, body = get(t, s.URL()+"/nowhere")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "any /nowhere", body)

	s.Unregister(Wildcard)
	code, _ = get(t, s.URL()+"/nowhere")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestService_BodyAndErrors(t *testing.T) {
	s := newTestService(t)

	bodies := make(chan string, 1)
	require.NoError(t, s.Register("/echo", func(w http.ResponseWriter, r *http.Request, body string) error {
		bodies <- body
		return nil
	}))
	require.NoError(t, s.Register("/broken", func(http.ResponseWriter, *http.Request, string) error {
		return ErrResponseMissing
	}))

	resp, err := http.Post(s.URL()+"/echo", "text/plain", strings.NewReader("payload"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "payload", <-bodies)

	code, body := get(t, s.URL()+"/broken")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, ErrResponseMissing.Error())
}

func TestService_StartTwice(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.Start())
	addr := s.Addr()
	require.NoError(t, s.Start())
	assert.Equal(t, addr, s.Addr())

	other := NewService(WithAddr(addr), WithLogger(log.New(io.Discard, "", 0)))
	err := other.Start()
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrResponseMissing))
}

func TestService_RegisterFailureDropsRoute(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := NewService(WithAddr(ln.Addr().String()), WithLogger(log.New(io.Discard, "", 0)))
	err = s.Register("/taken", func(http.ResponseWriter, *http.Request, string) error { return nil })
	require.Error(t, err)
	assert.Empty(t, s.Routes())
	assert.Equal(t, StateUninitialized, s.State())
}

func TestService_BodyTooLarge(t *testing.T) {
	s := NewService(WithLogger(log.New(io.Discard, "", 0)))

	called := false
	s.router.AddRoute("/upload", func(http.ResponseWriter, *http.Request, string) error {
		called = true
		return nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", MaxBodySize+1)))
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called)
}
