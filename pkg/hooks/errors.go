package hooks

import (
	"github.com/glorpus-work/nebula/pkg/errors"
)

// Common hooks errors.
var (
	// ErrHookTypeEmpty is returned when a hooks type is empty.
	ErrHookTypeEmpty = errors.ErrHookTypeEmpty

	// ErrHookExecution is returned when there's an error executing a hooks.
	ErrHookExecution = errors.ErrHookExecution

	// ErrHookScript is returned when a hooks script reports a failure through err.
	ErrHookScript = errors.ErrHookScript

	// ErrHookLoad is returned when there's an error loading a hooks.
	ErrHookLoad = errors.ErrHookLoad
)

// ErrUnsupportedHookType is returned when an unsupported hooks type is used.
func ErrUnsupportedHookType(hookType HookType) error {
	return errors.Wrapf(ErrHookExecution, "unsupported hooks type: %s", hookType)
}
