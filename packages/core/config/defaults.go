package config

import "github.com/abdul-hamid-achik/hitmock/packages/mock"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Addr:            mock.DefaultAddr,
		Output:          "console",
		Timeout:         30000, // 30 seconds
		ShutdownTimeout: 5000,
		Charset:         "utf-8",
		Watch:           BoolPtr(false),
		Verbose:         BoolPtr(false),
		NoColor:         BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Addr == defaults.Addr &&
		len(c.Fixtures) == 0 &&
		c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.Timeout == defaults.Timeout &&
		c.ShutdownTimeout == defaults.ShutdownTimeout &&
		c.Duration == defaults.Duration &&
		c.Charset == defaults.Charset &&
		len(c.Headers) == 0 &&
		c.Exec == defaults.Exec &&
		len(c.Vars) == 0 &&
		c.EnvFile == defaults.EnvFile &&
		c.GetWatch() == defaults.GetWatch() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
