package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitmock/packages/core/config"
	"github.com/abdul-hamid-achik/hitmock/packages/fixture"
)

const usersFixture = `routes:
  - url: /users
    expect:
      - request: {json: {name: Ada}}
        status: 201
        response: {json: {id: 1}}
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	return cfg
}

func newTestSession(t *testing.T, cfg *config.Config, paths ...string) (*session, *bytes.Buffer) {
	t.Helper()
	files, err := fixture.Load(paths)
	require.NoError(t, err)

	var logs bytes.Buffer
	s, err := newSession(cfg, paths, files, log.New(&logs, "", 0))
	require.NoError(t, err)
	return s, &logs
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func failedMessages(t *testing.T, s *session, ctx context.Context) []string {
	t.Helper()
	result, err := s.run(ctx)
	require.NoError(t, err)

	var messages []string
	for _, a := range result.List.Items {
		if a.Failed() {
			messages = append(messages, a.Message)
		}
	}
	return messages
}

func TestSessionServesFixture(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "users.yaml", usersFixture)
	s, logs := newTestSession(t, testConfig(), path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.ready = func(url string) {
		status, body := post(t, url+"/users", `{"name":"Ada"}`)
		assert.Equal(t, http.StatusCreated, status)
		assert.JSONEq(t, `{"id":1}`, body)
		cancel()
	}

	result, err := s.run(ctx)
	require.NoError(t, err)

	assert.True(t, result.Passed())
	assert.Equal(t, "serve", result.Name)
	assert.Equal(t, path, result.Module)
	assert.NotEmpty(t, result.ID)
	require.Equal(t, 1, result.List.Len())
	assert.Equal(t, `"/users" HTTP service request JSON, request #1`, result.List.Items[0].Message)
	assert.Contains(t, logs.String(), "Serving 1 routes from 1 files at http://127.0.0.1:")
}

func TestSessionReportsUnmetExpectations(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "users.yaml", usersFixture)
	s, logs := newTestSession(t, testConfig(), path)

	ctx, cancel := context.WithCancel(context.Background())
	s.ready = func(string) { cancel() }

	assert.Equal(t, []string{
		`Expected 1 more requests to "/users" HTTP service, than actually ran`,
	}, failedMessages(t, s, ctx))
	assert.Contains(t, logs.String(), `FAIL [mockHttpService] Expected 1 more requests to "/users" HTTP service`)
}

func TestSessionDuration(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "health.yaml", `routes:
  - url: /health
    expect: []
`)
	cfg := testConfig()
	cfg.Duration = 50
	s, _ := newTestSession(t, cfg, path)

	result, err := s.run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Passed())
}

func TestSessionExec(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "users.yaml", usersFixture)

	t.Run("command sees the stub url", func(t *testing.T) {
		cfg := testConfig()
		cfg.Exec = `case "$HITMOCK_URL" in http://127.0.0.1:*) exit 0;; *) exit 1;; esac`
		s, _ := newTestSession(t, cfg, path)
		s.ready = func(url string) {
			status, _ := post(t, url+"/users", `{"name":"Ada"}`)
			assert.Equal(t, http.StatusCreated, status)
		}

		result, err := s.run(context.Background())
		require.NoError(t, err)
		assert.True(t, result.Passed())
	})

	t.Run("failing command fails the run", func(t *testing.T) {
		cfg := testConfig()
		cfg.Exec = "echo broken; exit 3"
		s, logs := newTestSession(t, cfg, path)
		s.ready = func(url string) {
			post(t, url+"/users", `{"name":"Ada"}`)
		}

		messages := failedMessages(t, s, context.Background())
		require.Len(t, messages, 1)
		assert.Contains(t, messages[0], "shell command failed")
		assert.Contains(t, logs.String(), "broken")
	})
}

func TestSessionReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "users.yaml", usersFixture)
	s, _ := newTestSession(t, testConfig(), path)

	ctx, cancel := context.WithCancel(context.Background())
	s.ready = func(url string) {
		writeFixture(t, dir, "users.yaml", `routes:
  - url: /users
    expect:
      - response: {text: second}
  - url: /teams
    expect:
      - response: {text: teams}
`)
		s.reload(filepath.Clean(path))

		status, body := post(t, url+"/users", `{}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "second", body)

		status, body = post(t, url+"/teams", `{}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "teams", body)
		cancel()
	}

	assert.Equal(t, []string{
		`Expected 1 more requests to "/users" HTTP service, than actually ran`,
	}, failedMessages(t, s, ctx))
}

func TestSessionReloadDropsRemovedRoutes(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "health.yaml", `routes:
  - url: /health
    expect:
      - response: {text: ok}
  - url: /ready
    expect: []
`)
	s, logs := newTestSession(t, testConfig(), path)

	ctx, cancel := context.WithCancel(context.Background())
	s.ready = func(url string) {
		writeFixture(t, dir, "health.yaml", `routes:
  - url: /ready
    expect: []
`)
		s.reload(filepath.Clean(path))

		writeFixture(t, dir, "health.yaml", "routes: [")
		s.reload(filepath.Clean(path))
		cancel()
	}

	assert.Equal(t, []string{
		`Expected 1 more requests to "/health" HTTP service, than actually ran`,
	}, failedMessages(t, s, ctx))
	assert.Contains(t, logs.String(), "Ignoring change to")
}

func TestNewSessionRejectsSharedRoutes(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.yaml", usersFixture)
	b := writeFixture(t, dir, "b.yaml", usersFixture)

	files, err := fixture.Load([]string{a, b})
	require.NoError(t, err)

	_, err = newSession(testConfig(), []string{dir}, files, log.New(io.Discard, "", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `route "/users" declared in both`)
}
