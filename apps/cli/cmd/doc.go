// Package cmd implements the hitmock CLI commands using Cobra.
//
// Available commands:
//   - serve: Serve fixture routes and report unmet expectations
//   - validate: Check fixture files without serving them
//   - list: Display the routes and expectations in fixture files
//   - init: Create a config file and an example fixture
//   - version: Show hitmock version information
//   - completion: Generate shell completion scripts
//
// Flags default from HITMOCK_* environment variables, then from the config
// file found by config.LoadConfig.
package cmd
