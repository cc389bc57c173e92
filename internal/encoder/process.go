package encoder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Runner abstracts the encoder subprocess: arguments in, exit code and
// captured output lines out. Tests substitute a fake encoder through it.
type Runner interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) (int, error)
}

// ExecRunner runs the encoder with os/exec, merging stdout and stderr into a
// single line stream.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, binary string, args []string, onLine func(string)) (int, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start encoder: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("wait for encoder: %w", err)
	}
	if scanErr != nil {
		return -1, fmt.Errorf("read encoder output: %w", scanErr)
	}
	return 0, nil
}

var _ Runner = ExecRunner{}
