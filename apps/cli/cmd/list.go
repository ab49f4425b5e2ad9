package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitmock/packages/fixture"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>",
	Short: "List the routes and expectations in fixture files",
	Long: `List every route declared in fixture files together with its ordered
expectations.

Examples:
  hitmock list mocks/users.yaml
  hitmock list ./mocks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
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

	for _, file := range files {
		f, err := fixture.ParseFile(file, opts...)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for _, route := range f.Routes {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%d expected)\n", route.URL, len(route.Expect))
			for i, ex := range route.Expect {
				fmt.Fprintf(cmd.OutOrStdout(), "    %d. %s\n", i+1, describeExchange(ex))
			}
		}
	}

	return nil
}

// describeExchange summarises an expectation as "request -> status response"
func describeExchange(ex fixture.Exchange) string {
	request := "any request"
	if r := ex.Request; r != nil {
		switch {
		case r.Content != nil:
			request = "content"
		case r.JSON != nil:
			request = "json"
		case r.Schema != nil:
			request = "schema"
		case r.JSONPath != nil:
			request = "jsonpath " + r.JSONPath.Path
		}
	}

	response := "no response"
	if r := ex.Response; r != nil {
		switch {
		case r.Text != nil:
			response = "text"
		case r.HTML != nil:
			response = "html"
		case r.XML != nil:
			response = "xml"
		case r.JSON != nil:
			response = "json"
		case r.Binary != nil:
			response = "binary"
		}
	}

	status := ex.Status
	if status == 0 {
		status = 200
	}

	parts := []string{request, "->", fmt.Sprintf("%d", status), response}
	if ex.Delay != "" {
		parts = append(parts, "after "+ex.Delay)
	}
	return strings.Join(parts, " ")
}
