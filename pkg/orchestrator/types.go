//go:generate mockgen -destination=./mocks/orchestrator.go . Invalidator

package orchestrator

import (
	"github.com/glorpus-work/nebula/pkg/dnf"
	"github.com/glorpus-work/nebula/pkg/hooks"
	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/glorpus-work/nebula/pkg/runner"
)

// Operation names passed to hook scripts.
const (
	OpUpdate    = "update"
	OpUninstall = "uninstall"
)

// Invalidator is the subset of the cache store used after a successful change.
type Invalidator interface {
	Invalidate() error
}

// Executor runs the privileged update and removal operations.
type Executor struct {
	// Runner runs unprivileged commands such as dry runs.
	Runner runner.Runner
	// Privileged runs commands that change the system. Falls back to Runner when nil.
	Privileged  runner.Runner
	Commands    dnf.Commands
	Cache       Invalidator
	HookManager hooks.HookManager
	Hooks       model.Hooks // Hooks for progress and event notifications
}
