package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ShellResult represents the result of a command run against a live test
type ShellResult struct {
	Command  string
	Output   string
	Passed   bool
	Duration time.Duration
	Error    error
}

// RunShell runs command via sh -c in dir with env appended to the process
// environment. A leading "-" tolerates a non-zero exit.
func RunShell(ctx context.Context, command, dir string, env []string, verbose bool) *ShellResult {
	result := &ShellResult{
		Command: command,
		Passed:  true,
	}

	cmdStr := strings.TrimSpace(command)
	if cmdStr == "" {
		return result
	}

	ignoreError := strings.HasPrefix(cmdStr, "-")
	if ignoreError {
		cmdStr = strings.TrimSpace(strings.TrimPrefix(cmdStr, "-"))
	}

	start := time.Now()
	execCmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
	execCmd.Dir = dir
	execCmd.Env = append(os.Environ(), env...)

	output, err := execCmd.CombinedOutput()
	result.Output = string(output)
	result.Duration = time.Since(start)

	if err != nil {
		result.Passed = ignoreError
		if !ignoreError {
			result.Error = fmt.Errorf("shell command failed: %s: %v\nOutput: %s", command, err, output)
		}
	}

	if verbose && len(output) > 0 {
		fmt.Printf("Shell output: %s\n", output)
	}

	return result
}
