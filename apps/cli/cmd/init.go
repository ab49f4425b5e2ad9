package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitmock/packages/core/config"
	"github.com/abdul-hamid-achik/hitmock/packages/fixture"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new hitmock project",
	Long: `Initialize a new hitmock project in the given directory (default: current).

This creates:
  - .hitmock.yaml       - Configuration file
  - mocks/example.yaml  - Example fixture

Examples:
  hitmock init
  hitmock init ./e2e --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleFixture = `# Requests to each url are answered in order. Anything left unconsumed
# when serving stops is reported as a failure.
routes:
  - url: /health
    expect:
      - response: {text: ok}

  - url: /users
    expect:
      - request:
          json: {name: Ada}
        status: 201
        headers:
          Location: /users/1
        response:
          json: {id: 1, name: Ada}
      - request:
          jsonpath: {path: name, value: Grace}
        status: 201
        delay: 50ms
        response:
          json: {id: 2, name: Grace}

  - url: /users/1
    expect:
      - response:
          json: {id: 1, name: Ada}
`

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	configFile := filepath.Join(dir, ".hitmock.yaml")
	exampleFile := filepath.Join(dir, "mocks", "example.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return exitWith(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	if _, err := fixture.Parse([]byte(exampleFixture), exampleFile); err != nil {
		return fmt.Errorf("example fixture is invalid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exampleFile), 0755); err != nil {
		return fmt.Errorf("failed to create fixtures directory: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.Fixtures = []string{"mocks"}
	cfg.Headers = map[string]string{
		"X-Mocked-By": "hitmock",
	}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleFixture), 0644); err != nil {
		return fmt.Errorf("failed to create example fixture: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitmock project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'hitmock serve' to serve the example fixture.\n")

	return nil
}
