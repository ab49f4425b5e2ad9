package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if result.Module != "" {
		fmt.Fprintf(f.writer, "\n%s\n\n", bold("Module: "+result.Module))
	}

	symbol := green("✓")
	if !result.Passed() {
		symbol = red("✗")
	}
	var durationMs int64
	if result.List != nil {
		durationMs = result.List.DurationMs()
	}
	fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, result.Name, cyan(fmt.Sprintf("(%dms)", durationMs)))

	if result.List == nil {
		return
	}

	for _, a := range result.List.Items {
		if a.Passed() {
			if f.verbose {
				fmt.Fprintf(f.writer, "    %s [%s] %s\n", green("✓"), a.Method, a.Message)
			}
			continue
		}
		head, detail := failureText(a)
		fmt.Fprintf(f.writer, "    %s %s\n", red("→"), head)
		if detail != "" {
			for _, line := range strings.Split(strings.TrimRight(detail, "\n"), "\n") {
				fmt.Fprintf(f.writer, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Assertions: ")
	if passes := result.List.Passes(); passes > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", passes)))
	}
	if failures := result.List.Failures(); failures > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", failures)))
	}
	fmt.Fprintf(f.writer, "%d total\n", result.List.Len())
	fmt.Fprintf(f.writer, "Time:       %dms\n", result.List.DurationMs())
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitmock"), version)
}
