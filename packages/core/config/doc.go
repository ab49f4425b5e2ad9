// Package config handles configuration loading and management for hitmock.
//
// It provides functionality for:
//   - Loading configuration from .hitmock.yaml or hitmock.config.json files
//   - Default configuration values
//   - Merging file configuration with command line overrides
package config
