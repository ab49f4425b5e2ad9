package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitmock/packages/core/config"
	"github.com/abdul-hamid-achik/hitmock/packages/fixture"
	"github.com/abdul-hamid-achik/hitmock/packages/output"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [fixture|directory...]",
	Short: "Serve fixture routes and report unmet expectations",
	Long: `Serve the routes declared in fixture files on a local HTTP stub.

Each route answers its expected requests in order. When serving stops the
remaining expectations are reconciled and reported; any failure exits 1.

Serving stops on Ctrl+C, after --duration, or when the --exec command
finishes. The command sees the stub base URL in HITMOCK_URL.

Examples:
  hitmock serve mocks/users.yaml
  hitmock serve ./mocks --addr 127.0.0.1:8080 --watch
  hitmock serve ./mocks --exec "go test ./e2e/..." --output junit --output-file report.xml
  hitmock serve ./mocks --duration 30s -o tap`,
	RunE: serveCommand,
}

var (
	addrFlag            string
	configFlag          string
	envFileFlag         string
	outputFlag          string
	outputFileFlag      string
	durationFlag        string
	timeoutFlag         string
	shutdownTimeoutFlag int
	execFlag            string
	watchFlag           bool
	verboseFlag         bool
	noColorFlag         bool
)

func init() {
	serveCmd.Flags().StringVarP(&addrFlag, "addr", "a", getEnvString("HITMOCK_ADDR", ""), "Listen address (default 127.0.0.1:3000) (env: HITMOCK_ADDR)")

	// Output flags
	serveCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("HITMOCK_OUTPUT", ""), "Output format: console, json, junit, tap (env: HITMOCK_OUTPUT)")
	serveCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("HITMOCK_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: HITMOCK_OUTPUT_FILE)")
	serveCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("HITMOCK_VERBOSE", false), "Log every request and passing assertion (env: HITMOCK_VERBOSE)")
	serveCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("HITMOCK_NO_COLOR", false), "Disable colored output (env: HITMOCK_NO_COLOR)")

	// Lifetime flags
	serveCmd.Flags().StringVarP(&durationFlag, "duration", "d", getEnvString("HITMOCK_DURATION", ""), "Stop serving after this long (e.g., 30s, 5m) (env: HITMOCK_DURATION)")
	serveCmd.Flags().StringVarP(&execFlag, "exec", "e", getEnvString("HITMOCK_EXEC", ""), "Run a command against the stub, then stop (env: HITMOCK_EXEC)")
	serveCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("HITMOCK_TIMEOUT", ""), "Limit for the --exec command (e.g., 30s, 1m) (env: HITMOCK_TIMEOUT)")
	serveCmd.Flags().IntVar(&shutdownTimeoutFlag, "shutdown-timeout", getEnvInt("HITMOCK_SHUTDOWN_TIMEOUT", 0), "Milliseconds to wait for in-flight requests on stop (env: HITMOCK_SHUTDOWN_TIMEOUT)")
	serveCmd.Flags().BoolVarP(&watchFlag, "watch", "w", getEnvBool("HITMOCK_WATCH", false), "Reload changed fixtures into the running stub (env: HITMOCK_WATCH)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// flagConfig turns the serve flags into a config overlay. Unset flags stay
// zero so the file config shows through Merge.
func flagConfig(cmd *cobra.Command) (*config.Config, error) {
	c := &config.Config{
		Addr:            addrFlag,
		Output:          outputFlag,
		OutputFile:      outputFileFlag,
		ShutdownTimeout: shutdownTimeoutFlag,
		Exec:            execFlag,
		EnvFile:         envFileFlag,
		Watch:           boolOverride(cmd, "watch", watchFlag),
		Verbose:         boolOverride(cmd, "verbose", verboseFlag),
		NoColor:         boolOverride(cmd, "no-color", noColorFlag),
	}

	var err error
	if c.Duration, err = parseMillis("duration", durationFlag); err != nil {
		return nil, err
	}
	if c.Timeout, err = parseMillis("timeout", timeoutFlag); err != nil {
		return nil, err
	}
	return c, nil
}

func boolOverride(cmd *cobra.Command, name string, value bool) *bool {
	if cmd.Flags().Changed(name) || value {
		return config.BoolPtr(value)
	}
	return nil
}

func parseMillis(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w (use format like 30s, 1m, 500ms)", name, value, err)
	}
	return int(d.Milliseconds()), nil
}

// fixtureOptions resolves the placeholder variables for cfg: config vars
// overlaid by the env file.
func fixtureOptions(cfg *config.Config, logger *log.Logger) ([]fixture.Option, error) {
	vars := cfg.Vars
	if cfg.EnvFile != "" {
		fileVars, err := fixture.LoadVars(cfg.EnvFile)
		if err != nil {
			return nil, err
		}
		vars = cfg.Merge(&config.Config{Vars: fileVars}).Vars
	}
	return []fixture.Option{
		fixture.WithVars(vars),
		fixture.WithWarn(logger.Printf),
	}, nil
}

func serveCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}
	overlay, err := flagConfig(cmd)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	cfg := fileConfig.Merge(overlay)

	paths := args
	if len(paths) == 0 {
		paths = cfg.Fixtures
	}
	if len(paths) == 0 {
		return exitWith(ExitUsageError, fmt.Errorf("no fixtures given: pass fixture paths or set fixtures in the config file"))
	}

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	opts, err := fixtureOptions(cfg, logger)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}

	files, err := fixture.Load(paths, opts...)
	if err != nil {
		return exitWith(ExitParseError, err)
	}

	// Setup output writer
	var outWriter io.Writer = cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return exitWith(ExitConfigError, fmt.Errorf("cannot create output file: %w", err))
		}
		defer f.Close()
		outWriter = f
	}

	formatter, err := output.New(cfg.Output, outWriter, cfg.GetVerbose(), cfg.GetNoColor())
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	formatter.FormatHeader(version)

	s, err := newSession(cfg, paths, files, logger, opts...)
	if err != nil {
		formatter.FormatError(err)
		return exitWith(ExitParseError, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := s.run(ctx)
	if err != nil {
		formatter.FormatError(err)
		if flushable, ok := formatter.(output.Flushable); ok {
			_ = flushable.Flush(0)
		}
		return exitWith(ExitNetworkError, err)
	}

	formatter.FormatResult(result)

	// Flush output for formatters that accumulate results
	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(result.List.Duration); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	if !result.Passed() {
		return exitWith(ExitTestFailure, nil)
	}
	return nil
}
