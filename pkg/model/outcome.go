package model

import (
	"fmt"
	"strings"
)

// UninstallMode selects how a package is removed.
type UninstallMode string

const (
	// UninstallSafe removes the package and anything that depends on it, assuming yes.
	UninstallSafe UninstallMode = "safe"
	// UninstallForce removes only the package, ignoring dependency checks.
	UninstallForce UninstallMode = "force"
	// UninstallDryRunSafe reports what a safe removal would do.
	UninstallDryRunSafe UninstallMode = "dry-run-safe"
	// UninstallDryRunForce tests a forced removal without changing the system.
	UninstallDryRunForce UninstallMode = "dry-run-force"
)

// IsDryRun reports whether the mode leaves the system untouched.
func (m UninstallMode) IsDryRun() bool {
	return m == UninstallDryRunSafe || m == UninstallDryRunForce
}

// Valid reports whether m is one of the known modes.
func (m UninstallMode) Valid() bool {
	switch m {
	case UninstallSafe, UninstallForce, UninstallDryRunSafe, UninstallDryRunForce:
		return true
	default:
		return false
	}
}

// ModeFromFlags picks the uninstall mode for the --force and --dry-run flags.
func ModeFromFlags(force, dryRun bool) UninstallMode {
	switch {
	case force && dryRun:
		return UninstallDryRunForce
	case force:
		return UninstallForce
	case dryRun:
		return UninstallDryRunSafe
	default:
		return UninstallSafe
	}
}

// OperationOutcome is the result of a privileged update or removal.
type OperationOutcome struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// StepOutput is the captured output of one executed command.
type StepOutput struct {
	Label  string
	Stdout string
	Stderr string
}

// FormatDetails renders the captured output of every step, one labelled section each.
func FormatDetails(steps ...StepOutput) string {
	var b strings.Builder
	for i, s := range steps {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "== %s ==\n", s.Label)
		if out := strings.TrimRight(s.Stdout, "\n"); out != "" {
			b.WriteString(out)
			b.WriteString("\n")
		}
		if errOut := strings.TrimRight(s.Stderr, "\n"); errOut != "" {
			b.WriteString(errOut)
			b.WriteString("\n")
		}
	}
	return b.String()
}
