//go:generate mockgen -destination=./mocks/runner.go . Runner

// Package runner executes external programs and captures their exit status and output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/glorpus-work/nebula/internal/logger"
	pkgerrors "github.com/glorpus-work/nebula/pkg/errors"
)

// Runner runs one external command. A non-zero exit is reported through
// Result, not as an error; an error means the program could not be started.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (*Result, error)
}

// Result holds the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the command exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Combined returns stdout followed by stderr.
func (r *Result) Combined() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.Write(r.Stdout)
	if len(r.Stdout) > 0 && len(r.Stderr) > 0 && !bytes.HasSuffix(r.Stdout, []byte("\n")) {
		b.WriteByte('\n')
	}
	b.Write(r.Stderr)
	return b.String()
}

// CommandLine renders program and args for logs and messages.
func CommandLine(program string, args ...string) string {
	return strings.TrimSpace(program + " " + strings.Join(args, " "))
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Env, when set, is appended to the inherited environment.
	Env []string
}

// NewExecRunner creates a runner that forces the C locale so tool output is stable.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Env: []string{"LC_ALL=C"}}
}

// Run executes program with args and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	line := CommandLine(program, args...)
	logger.Debug("Running command", logger.Fields{"command": line})

	cmd := exec.CommandContext(ctx, program, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		result.ExitCode = exitErr.ExitCode()
		logger.Debug("Command exited with non-zero status", logger.Fields{
			"command":   line,
			"exit_code": result.ExitCode,
		})
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, pkgerrors.E(pkgerrors.KindExternalTool, line, ctxErr)
	}
	return nil, pkgerrors.E(pkgerrors.KindExternalTool, line, err)
}

// Privileged runs commands through an escalation helper such as pkexec.
type Privileged struct {
	Runner  Runner
	Command string
	Args    []string
}

// NewPrivileged wraps r so every command is prefixed with command. An empty
// command runs programs directly.
func NewPrivileged(r Runner, command string, args ...string) *Privileged {
	return &Privileged{Runner: r, Command: command, Args: args}
}

// Run executes program through the escalation helper.
func (p *Privileged) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	if p.Command == "" {
		return p.Runner.Run(ctx, program, args...)
	}
	wrapped := make([]string, 0, len(p.Args)+len(args)+1)
	wrapped = append(wrapped, p.Args...)
	wrapped = append(wrapped, program)
	wrapped = append(wrapped, args...)
	return p.Runner.Run(ctx, p.Command, wrapped...)
}
