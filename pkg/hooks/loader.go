package hooks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/nebula/pkg/errors"
)

// HookFileExtensions lists the supported hooks file extensions.
var HookFileExtensions = map[string]bool{
	".tengo": true,
}

// LoadHooksFromDir registers every <hooks-type>.tengo file found in dir.
// A missing directory is not an error.
func LoadHooksFromDir(manager HookManager, dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(ErrHookLoad, "failed to read hooks directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if !HookFileExtensions[ext] {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), ext))
		if !hookType.Valid() {
			continue
		}

		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return errors.Wrapf(ErrHookLoad, "error reading hooks file %s: %v", hookPath, err)
		}

		if err := manager.AddHook(Hook{
			Type:    hookType,
			Content: string(content),
		}); err != nil {
			return errors.Wrapf(err, "error adding hooks %s", hookType)
		}
	}

	return nil
}

// HookTemplate generates a template for a hooks script.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PreUpdate:
		return `// Pre-update hooks
// This script runs before a package is updated
// Available variables:
// - packageName: string - name of the package being updated
// - operation: string - "update"
// - dryRun: bool - always false for updates
// - any custom variables passed to the hooks
// Assign a non-empty string to err to abort the operation.

// Example: refuse to update the kernel from here
/*
if packageName == "kernel" {
    err = "kernel updates are handled separately"
}
*/`

	case PostUpdate:
		return `// Post-update hooks
// This script runs after a package update attempt
// Available variables: same as pre-update hooks, plus
// - success: bool - whether the update succeeded
// - output: string - combined command output

// Example: log the result
/*
fmt := import("fmt")
fmt.println(packageName, "updated:", success)
*/`

	case PreUninstall:
		return `// Pre-uninstall hooks
// This script runs before a package is removed
// Available variables:
// - packageName: string - name of the package being removed
// - operation: string - "uninstall"
// - mode: string - safe, force, dry-run-safe or dry-run-force
// - dryRun: bool - true when nothing will be removed
// Assign a non-empty string to err to abort the operation.

// Example: block forced removal of glibc
/*
if packageName == "glibc" && mode == "force" {
    err = "refusing to force-remove glibc"
}
*/`

	case PostUninstall:
		return `// Post-uninstall hooks
// This script runs after a removal attempt
// Available variables: same as pre-uninstall hooks, plus
// - success: bool - whether the removal succeeded
// - output: string - combined command output

// Example: clean up leftover configuration
/*
os := import("os")
if success && !dryRun {
    os.remove_all("/etc/" + packageName + ".d")
}
*/`

	default:
		return "// Unknown hooks type: " + string(hookType)
	}
}
