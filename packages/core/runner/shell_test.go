package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunShell(t *testing.T) {
	t.Run("env is passed through", func(t *testing.T) {
		result := RunShell(context.Background(), "echo $HITMOCK_URL", t.TempDir(), []string{"HITMOCK_URL=http://127.0.0.1:3000"}, false)
		assert.True(t, result.Passed)
		assert.NoError(t, result.Error)
		assert.Equal(t, "http://127.0.0.1:3000\n", result.Output)
	})

	t.Run("failure", func(t *testing.T) {
		result := RunShell(context.Background(), "exit 3", "", nil, false)
		assert.False(t, result.Passed)
		assert.Error(t, result.Error)
	})

	t.Run("ignored failure", func(t *testing.T) {
		result := RunShell(context.Background(), "- exit 3", "", nil, false)
		assert.True(t, result.Passed)
		assert.NoError(t, result.Error)
	})

	t.Run("empty command", func(t *testing.T) {
		result := RunShell(context.Background(), "  ", "", nil, false)
		assert.True(t, result.Passed)
	})
}
