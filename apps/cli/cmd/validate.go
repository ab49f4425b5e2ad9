package cmd

import (
	"fmt"
	"log"

	"github.com/abdul-hamid-achik/hitmock/packages/core/config"
	"github.com/abdul-hamid-achik/hitmock/packages/fixture"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate fixture files without serving them",
	Long: `Validate hitmock fixture files: YAML/JSON syntax, route URLs, and that every
expectation has exactly one response body and at most one request matcher.

Examples:
  hitmock validate mocks/users.yaml
  hitmock validate ./mocks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	opts, err := readerOptions(cmd)
	if err != nil {
		return err
	}

	files, err := fixture.Collect(args)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}

	if len(files) == 0 {
		return exitWith(ExitUsageError, fmt.Errorf("no fixture files found"))
	}

	hasErrors := false
	for _, file := range files {
		f, err := fixture.ParseFile(file, opts...)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d routes, %d expectations)\n", file, len(f.Routes), f.Expectations())
		}
	}

	if hasErrors {
		return exitWith(ExitParseError, fmt.Errorf("validation failed"))
	}

	return nil
}

// readerOptions loads the config for commands that only read fixtures
func readerOptions(cmd *cobra.Command) ([]fixture.Option, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, exitWith(ExitConfigError, err)
	}
	cfg = cfg.Merge(&config.Config{EnvFile: envFileFlag})

	opts, err := fixtureOptions(cfg, log.New(cmd.ErrOrStderr(), "warning: ", 0))
	if err != nil {
		return nil, exitWith(ExitConfigError, err)
	}
	return opts, nil
}
