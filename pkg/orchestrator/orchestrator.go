package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/glorpus-work/nebula/internal/logger"
	"github.com/glorpus-work/nebula/pkg/dnf"
	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/hooks"
	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/glorpus-work/nebula/pkg/runner"
)

// Update upgrades one package. A failed dnf run is reported through the
// outcome; only a launch failure is returned as an error.
func (e *Executor) Update(ctx context.Context, name string) (*model.OperationOutcome, error) {
	name, err := packageName(name)
	if err != nil {
		return nil, err
	}

	e.Hooks.Emit(model.Event{Phase: "planning", ID: name, Msg: OpUpdate})
	hctx := hooks.HookContext{PackageName: name, Operation: OpUpdate}
	if err := e.runHook(ctx, hooks.PreUpdate, hctx); err != nil {
		return e.aborted(name, OpUpdate, err), nil
	}

	cmd := e.Commands.Update(name)
	e.Hooks.Emit(model.Event{Phase: "updating", ID: name, Msg: runner.CommandLine(cmd.Program, cmd.Args...)})
	res, err := e.exec(ctx, cmd)
	if err != nil {
		e.Hooks.Emit(model.Event{Phase: "error", ID: name, Msg: err.Error()})
		return nil, err
	}

	outcome := &model.OperationOutcome{
		Success: res.Success(),
		Details: model.FormatDetails(step("update", res)),
	}
	if outcome.Success {
		outcome.Message = fmt.Sprintf("%s updated successfully", name)
	} else {
		outcome.Message = fmt.Sprintf("failed to update %s (exit status %d)", name, res.ExitCode)
	}

	e.finish(ctx, outcome, res.Success(), hooks.PostUpdate, hctx)
	return outcome, nil
}

// Uninstall removes one package using mode. In safe mode with cleanupOrphans
// set, a successful removal is followed by dnf autoremove, whose failure fails
// the whole operation.
func (e *Executor) Uninstall(ctx context.Context, name string, mode model.UninstallMode, cleanupOrphans bool) (*model.OperationOutcome, error) {
	name, err := packageName(name)
	if err != nil {
		return nil, err
	}
	cmd, ok := e.Commands.Remove(name, mode)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidMode, "%q", mode)
	}

	e.Hooks.Emit(model.Event{Phase: "planning", ID: name, Msg: fmt.Sprintf("%s (%s)", OpUninstall, mode)})
	hctx := hooks.HookContext{
		PackageName: name,
		Operation:   OpUninstall,
		Mode:        string(mode),
		DryRun:      mode.IsDryRun(),
	}
	if !mode.IsDryRun() {
		if err := e.runHook(ctx, hooks.PreUninstall, hctx); err != nil {
			return e.aborted(name, OpUninstall, err), nil
		}
	}

	e.Hooks.Emit(model.Event{Phase: "uninstalling", ID: name, Msg: runner.CommandLine(cmd.Program, cmd.Args...)})
	res, err := e.exec(ctx, cmd)
	if err != nil {
		e.Hooks.Emit(model.Event{Phase: "error", ID: name, Msg: err.Error()})
		return nil, err
	}

	steps := []model.StepOutput{step("remove", res)}
	outcome := &model.OperationOutcome{Success: res.Success()}
	switch {
	case !outcome.Success:
		outcome.Message = fmt.Sprintf("failed to remove %s (exit status %d)", name, res.ExitCode)
	case mode.IsDryRun():
		outcome.Message = fmt.Sprintf("dry run: %s can be removed (%s)", name, mode)
	default:
		outcome.Message = fmt.Sprintf("%s removed successfully", name)
	}

	if outcome.Success && mode == model.UninstallSafe && cleanupOrphans {
		cleanup := e.Commands.Autoremove()
		e.Hooks.Emit(model.Event{Phase: "cleanup", ID: name, Msg: runner.CommandLine(cleanup.Program, cleanup.Args...)})
		cres, err := e.exec(ctx, cleanup)
		if err != nil {
			e.Hooks.Emit(model.Event{Phase: "error", ID: name, Msg: err.Error()})
			if ierr := e.invalidate(); ierr != nil {
				logger.Warn("Failed to invalidate package cache", logger.Fields{"error": ierr})
			}
			return nil, errors.Wrapf(err, "%s was removed but orphan cleanup could not start", name)
		}
		steps = append(steps, step("autoremove", cres))
		if cres.Success() {
			outcome.Message += "; orphaned dependencies removed"
		} else {
			outcome.Success = false
			outcome.Message = fmt.Sprintf("%s removed, but orphan cleanup failed (exit status %d)", name, cres.ExitCode)
		}
	}
	outcome.Details = model.FormatDetails(steps...)

	if mode.IsDryRun() {
		e.Hooks.Emit(model.Event{Phase: "done", ID: name, Msg: "dry-run"})
		return outcome, nil
	}
	e.finish(ctx, outcome, res.Success(), hooks.PostUninstall, hctx)
	return outcome, nil
}

// finish invalidates the cache once the primary dnf step changed the system,
// even when a later step failed, runs the post hook and emits the final event.
func (e *Executor) finish(ctx context.Context, outcome *model.OperationOutcome, changed bool, post hooks.HookType, hctx hooks.HookContext) {
	if changed && !hctx.DryRun {
		if err := e.invalidate(); err != nil {
			logger.Warn("Failed to invalidate package cache", logger.Fields{"error": err})
			outcome.Message += fmt.Sprintf(" (cache invalidation failed: %v)", err)
		}
	}

	hctx.Success = outcome.Success
	hctx.Output = outcome.Details
	if err := e.runHook(ctx, post, hctx); err != nil {
		outcome.Message += fmt.Sprintf(" (%s hook failed: %v)", post, err)
	}

	e.Hooks.Emit(model.Event{Phase: "done", ID: hctx.PackageName, Msg: outcome.Message})
}

func (e *Executor) invalidate() error {
	if e.Cache == nil {
		return nil
	}
	return e.Cache.Invalidate()
}

// packageName trims name and rejects values dnf or rpm would read as options.
func packageName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.ErrInvalidPackageName
	}
	if strings.HasPrefix(name, "-") {
		return "", errors.Wrapf(errors.ErrPackageNameOption, "%q", name)
	}
	return name, nil
}

func (e *Executor) runHook(ctx context.Context, hookType hooks.HookType, hctx hooks.HookContext) error {
	if e.HookManager == nil || !e.HookManager.HasHook(hookType) {
		return nil
	}
	e.Hooks.Emit(model.Event{Phase: "hook", ID: hctx.PackageName, Msg: string(hookType)})
	if err := e.HookManager.Execute(ctx, hookType, hctx); err != nil {
		logger.Warn("Hook failed", logger.Fields{"hook": hookType, "package": hctx.PackageName, "error": err})
		return err
	}
	return nil
}

func (e *Executor) aborted(name, op string, err error) *model.OperationOutcome {
	e.Hooks.Emit(model.Event{Phase: "done", ID: name, Msg: "aborted"})
	return &model.OperationOutcome{
		Success: false,
		Message: fmt.Sprintf("%s of %s aborted by hook: %v", op, name, err),
	}
}

func (e *Executor) exec(ctx context.Context, cmd dnf.Command) (*runner.Result, error) {
	r := e.Runner
	if cmd.Privileged && e.Privileged != nil {
		r = e.Privileged
	}
	if r == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "command runner")
	}
	return r.Run(ctx, cmd.Program, cmd.Args...)
}

func step(label string, res *runner.Result) model.StepOutput {
	return model.StepOutput{Label: label, Stdout: string(res.Stdout), Stderr: string(res.Stderr)}
}

// New constructs an Executor. Helper for wiring.
// Hooks can be empty if no event handling is needed.
func New(r, privileged runner.Runner, cmds dnf.Commands, cache Invalidator, hm hooks.HookManager, events model.Hooks) *Executor {
	return &Executor{
		Runner:      r,
		Privileged:  privileged,
		Commands:    cmds,
		Cache:       cache,
		HookManager: hm,
		Hooks:       events,
	}
}
