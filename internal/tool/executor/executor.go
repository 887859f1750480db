// Package executor runs shell commands on behalf of the terminal tool,
// with output caps and a graceful timeout.
package executor

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/DJMcClellan1966/AI-Agent/internal/config"
)

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// ShellExecutor runs command strings through the system shell.
type ShellExecutor struct {
	config *config.Config
}

// NewShellExecutor creates a ShellExecutor with injected config.
func NewShellExecutor(cfg *config.Config) *ShellExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	return &ShellExecutor{config: cfg}
}

// Run executes command via "sh -c" in dir with the configured timeout.
// On timeout the process is sent Interrupt first and Kill after a grace
// period, and the returned error is ErrTimeout with ExitCode -1.
// A non-zero exit from the command itself is not an error; it is reported
// through ExitCode so the caller can relay it to the model.
func (s *ShellExecutor) Run(ctx context.Context, command string, dir string) (*Result, error) {
	timeout := time.Duration(s.config.Tools.ShellTimeoutSeconds) * time.Second

	// No CommandContext: timeout handling needs the Interrupt-then-Kill
	// sequence, which a context cancel would skip.
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdin = nil

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &CommandError{Cmd: command, Cause: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &CommandError{Cmd: command, Cause: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command, Cause: err}
	}

	var stdoutStr, stderrStr string
	var truncated bool
	collectDone := make(chan struct{})
	go func() {
		stdoutStr, stderrStr, truncated = s.collectOutput(stdoutPipe, stderrPipe)
		close(collectDone)
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var execErr error
	select {
	case err := <-done:
		execErr = err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		execErr = ctx.Err()
	case <-time.After(timeout):
		_ = cmd.Process.Signal(os.Interrupt)
		grace := time.Duration(s.config.Tools.GracefulShutdownMs) * time.Millisecond
		select {
		case <-done:
		case <-time.After(grace):
			_ = cmd.Process.Kill()
			<-done
		}
		execErr = ErrTimeout
	}

	<-collectDone

	exitCode := 0
	switch {
	case execErr == nil:
	case execErr == ErrTimeout || execErr == ctx.Err():
		exitCode = -1
	default:
		exitCode = s.getExitCode(execErr)
		// An ExitError just means the command returned non-zero.
		if _, ok := execErr.(*exec.ExitError); ok {
			execErr = nil
		}
	}

	return &Result{
		Stdout:    stdoutStr,
		Stderr:    stderrStr,
		ExitCode:  exitCode,
		Truncated: truncated,
	}, execErr
}

func (s *ShellExecutor) collectOutput(stdout, stderr io.Reader) (string, string, bool) {
	stdoutCollector := newCollector(s.config.Tools.MaxStdoutChars)
	stderrCollector := newCollector(s.config.Tools.MaxStderrChars)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, _ = io.Copy(stdoutCollector, stdout)
	}()

	go func() {
		defer wg.Done()
		_, _ = io.Copy(stderrCollector, stderr)
	}()

	wg.Wait()

	truncated := stdoutCollector.Truncated() || stderrCollector.Truncated()
	return stdoutCollector.String(), stderrCollector.String(), truncated
}

func (s *ShellExecutor) getExitCode(err error) int {
	if err == nil {
		return 0
	}
	type exitCoder interface {
		ExitCode() int
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}

// collector captures a stream up to maxBytes, marking overflow as truncated.
type collector struct {
	buffer    bytes.Buffer
	maxBytes  int
	truncated bool
}

func newCollector(maxBytes int) *collector {
	return &collector{maxBytes: maxBytes}
}

func (c *collector) Write(p []byte) (n int, err error) {
	remaining := c.maxBytes - c.buffer.Len()
	if remaining <= 0 {
		c.truncated = true
		return len(p), nil
	}

	toWrite := p
	if len(toWrite) > remaining {
		toWrite = toWrite[:remaining]
		c.truncated = true
	}

	if _, err := c.buffer.Write(toWrite); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *collector) String() string {
	return c.buffer.String()
}

func (c *collector) Truncated() bool {
	return c.truncated
}
