package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/nebula/pkg/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHookManager(t *testing.T) {
	manager := hooks.NewHookManager()
	assert.NotNil(t, manager)
}

func TestAddAndExecuteHook(t *testing.T) {
	manager := hooks.NewHookManager()
	hctx := hooks.HookContext{
		PackageName: "htop",
		Operation:   "update",
		Vars: map[string]interface{}{
			"testVar": "testValue",
		},
	}

	tests := []struct {
		name        string
		hook        hooks.Hook
		expectedErr error
	}{
		{
			name: "valid hooks",
			hook: hooks.Hook{Type: hooks.PreUpdate, Content: `// no-op`},
		},
		{
			name:        "empty hooks type",
			hook:        hooks.Hook{Type: "", Content: "test content"},
			expectedErr: hooks.ErrHookTypeEmpty,
		},
		{
			name:        "unsupported hooks type",
			hook:        hooks.Hook{Type: "pre-install", Content: "test content"},
			expectedErr: hooks.ErrHookExecution,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := manager.AddHook(testCase.hook)
			if testCase.expectedErr != nil {
				assert.ErrorIs(t, err, testCase.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, manager.HasHook(testCase.hook.Type))
			assert.NoError(t, manager.Execute(context.Background(), testCase.hook.Type, hctx))
		})
	}
}

func TestExecuteWithoutHook(t *testing.T) {
	manager := hooks.NewHookManager()
	assert.NoError(t, manager.Execute(context.Background(), hooks.PostUninstall, hooks.HookContext{}))
}

func TestExecuteDoesNotMutateVars(t *testing.T) {
	manager := hooks.NewHookManager()
	require.NoError(t, manager.AddHook(hooks.Hook{Type: hooks.PreUpdate, Content: `testVar = "changed"`}))

	vars := map[string]interface{}{"testVar": "original"}
	require.NoError(t, manager.Execute(context.Background(), hooks.PreUpdate, hooks.HookContext{Vars: vars}))
	assert.Equal(t, "original", vars["testVar"])
}

func TestRemoveHook(t *testing.T) {
	manager := hooks.NewHookManager()
	require.NoError(t, manager.AddHook(hooks.Hook{Type: hooks.PreUninstall, Content: "// test"}))
	assert.True(t, manager.HasHook(hooks.PreUninstall))

	require.NoError(t, manager.RemoveHook(hooks.PreUninstall))
	assert.False(t, manager.HasHook(hooks.PreUninstall))

	assert.ErrorIs(t, manager.RemoveHook(""), hooks.ErrHookTypeEmpty)
}

func TestLoadHooksFromDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"pre-update.tengo":     `// pre`,
		"post-uninstall.tengo": `// post`,
		"pre-install.tengo":    `// unknown type is skipped`,
		"pre-uninstall.txt":    `// wrong extension is skipped`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "post-update.tengo"), 0o700))

	manager := hooks.NewHookManager()
	require.NoError(t, hooks.LoadHooksFromDir(manager, dir))

	assert.True(t, manager.HasHook(hooks.PreUpdate))
	assert.True(t, manager.HasHook(hooks.PostUninstall))
	assert.False(t, manager.HasHook(hooks.PreUninstall))
	assert.False(t, manager.HasHook(hooks.PostUpdate))
}

func TestLoadHooksFromMissingDir(t *testing.T) {
	manager := hooks.NewHookManager()
	assert.NoError(t, hooks.LoadHooksFromDir(manager, filepath.Join(t.TempDir(), "missing")))
	assert.NoError(t, hooks.LoadHooksFromDir(manager, ""))
}

func TestHookTemplate(t *testing.T) {
	for _, hookType := range hooks.AllTypes {
		t.Run(string(hookType), func(t *testing.T) {
			tmpl := hooks.HookTemplate(hookType)
			assert.NotContains(t, tmpl, "Unknown hooks type")
			assert.Contains(t, tmpl, "packageName")
		})
	}
	assert.Contains(t, hooks.HookTemplate("bogus"), "Unknown hooks type")
}
