package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the hitmock configuration
type Config struct {
	Addr            string            `json:"addr,omitempty" yaml:"addr,omitempty"`
	Fixtures        []string          `json:"fixtures,omitempty" yaml:"fixtures,omitempty"`
	Output          string            `json:"output,omitempty" yaml:"output,omitempty"`         // console, json, junit or tap
	OutputFile      string            `json:"outputFile,omitempty" yaml:"outputFile,omitempty"` // write the report here instead of stdout
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty"`       // milliseconds the exec command may run
	ShutdownTimeout int               `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
	Duration        int               `json:"duration,omitempty" yaml:"duration,omitempty"` // milliseconds, 0 serves until interrupted
	Charset         string            `json:"charset,omitempty" yaml:"charset,omitempty"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // added to every fixture response
	Exec            string            `json:"exec,omitempty" yaml:"exec,omitempty"`
	Vars            map[string]string `json:"vars,omitempty" yaml:"vars,omitempty"`       // fills {{name}} in fixtures
	EnvFile         string            `json:"envFile,omitempty" yaml:"envFile,omitempty"` // dotenv file merged over vars
	Watch           *bool             `json:"watch,omitempty" yaml:"watch,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor         *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetWatch returns the watch setting, defaulting to false
func (c *Config) GetWatch() bool {
	return getBool(c.Watch, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".hitmock.yaml",
	".hitmock.yml",
	"hitmock.yaml",
	".hitmock.config.json",
	"hitmock.config.json",
	".hitmockrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// loadConfigFromFile loads configuration from a specific file. Files ending
// in .json are decoded as JSON, everything else as YAML.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if isJSON(path) {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Addr != "" {
		result.Addr = other.Addr
	}
	if len(other.Fixtures) > 0 {
		result.Fixtures = other.Fixtures
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.ShutdownTimeout > 0 {
		result.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.Duration > 0 {
		result.Duration = other.Duration
	}
	if other.Charset != "" {
		result.Charset = other.Charset
	}
	if other.Exec != "" {
		result.Exec = other.Exec
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Watch != nil {
		result.Watch = other.Watch
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	result.Headers = mergeMaps(result.Headers, other.Headers)
	result.Vars = mergeMaps(result.Vars, other.Vars)

	return &result
}

func mergeMaps(base, over map[string]string) map[string]string {
	if len(over) == 0 {
		return base
	}
	merged := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

// SaveConfig saves the configuration to a file, as JSON when the path ends
// in .json and as YAML otherwise
func (c *Config) SaveConfig(path string) error {
	var data []byte
	var err error
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
