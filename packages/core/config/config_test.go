package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:3000", cfg.Addr)
	assert.Equal(t, "console", cfg.Output)
	assert.False(t, cfg.GetWatch())
	assert.True(t, cfg.IsDefault())

	cfg.Duration = 1000
	assert.False(t, cfg.IsDefault())
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no file returns defaults", func(t *testing.T) {
		cfg, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.IsDefault())
	})

	t.Run("yaml file", func(t *testing.T) {
		dir := t.TempDir()
		content := `addr: 127.0.0.1:4000
fixtures:
  - mocks/users.yaml
output: junit
verbose: true
headers:
  X-Env: test
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitmock.yaml"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:4000", cfg.Addr)
		assert.Equal(t, []string{"mocks/users.yaml"}, cfg.Fixtures)
		assert.Equal(t, "junit", cfg.Output)
		assert.True(t, cfg.GetVerbose())
		assert.Equal(t, "test", cfg.Headers["X-Env"])
		assert.Equal(t, 30000, cfg.Timeout)
	})

	t.Run("json file", func(t *testing.T) {
		dir := t.TempDir()
		content := `{"output": "tap", "duration": 2000, "watch": true}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "hitmock.config.json"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "tap", cfg.Output)
		assert.Equal(t, 2000, cfg.Duration)
		assert.True(t, cfg.GetWatch())
	})

	t.Run("invalid file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "hitmock.config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1"}

	merged := base.Merge(&Config{
		Addr:    "127.0.0.1:0",
		Verbose: BoolPtr(true),
		Headers: map[string]string{"B": "2"},
		Vars:    map[string]string{"region": "eu"},
		EnvFile: ".env.test",
	})

	assert.Equal(t, "127.0.0.1:0", merged.Addr)
	assert.True(t, merged.GetVerbose())
	assert.False(t, merged.GetNoColor())
	assert.Equal(t, "console", merged.Output)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)
	assert.Equal(t, map[string]string{"A": "1"}, base.Headers)
	assert.Equal(t, map[string]string{"region": "eu"}, merged.Vars)
	assert.Equal(t, ".env.test", merged.EnvFile)
	assert.Nil(t, base.Vars)

	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig(t *testing.T) {
	for _, name := range []string{"hitmock.yaml", "hitmock.config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.Fixtures = []string{"a.yaml", "b.yaml"}
			cfg.Watch = BoolPtr(true)

			require.NoError(t, cfg.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}
