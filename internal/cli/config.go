package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/glorpus-work/nebula/internal/logger"
	"github.com/glorpus-work/nebula/pkg/config"
	"github.com/glorpus-work/nebula/pkg/fsutil"
	"github.com/glorpus-work/nebula/pkg/hooks"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify nebula configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigGetCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current configuration settings",
		RunE: func(*cobra.Command, []string) error {
			return runConfigShow()
		},
	}

	return cmd
}

// Number of arguments expected by the set command.
const setCommandArgs = 2

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration key to a specific value",
		Args:  cobra.ExactArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Get the value of a specific configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force     bool
		withHooks bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a default configuration file.

With --hooks, commented hook script templates are written to the hooks
directory as well. Existing scripts are never overwritten.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force, withHooks)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&withHooks, "hooks", false, "Also write hook script templates")

	return cmd
}

func runConfigShow() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	settings := cfg.ToMap()
	if ok, err := writeStructured(cfg.Settings.OutputFormat, settings); ok {
		return err
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, settings[k]})
	}
	_, _ = fmt.Fprintln(stdout, renderTable([]string{"SETTING", "VALUE"}, rows))
	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set configuration value: %w", err)
	}

	configPath := getConfigPath()
	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Debug("Configuration updated", logger.Fields{"key": key, "value": value, "path": configPath})
	printSuccess("%s = %s", key, value)
	return nil
}

func runConfigGet(key string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.GetValue(key)
	if err != nil {
		return fmt.Errorf("failed to get configuration value: %w", err)
	}

	_, _ = fmt.Fprintln(stdout, value)
	return nil
}

func runConfigInit(force, withHooks bool) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", configPath)
	}

	defaultConfig := config.DefaultConfig()
	if err := defaultConfig.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save default configuration: %w", err)
	}
	printSuccess("Configuration file created at %s", configPath)

	if withHooks {
		return writeHookTemplates(defaultConfig.GetHooksDir())
	}
	return nil
}

func writeHookTemplates(dir string) error {
	if dir == "" {
		return fmt.Errorf("no hooks directory configured")
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}
	for _, hookType := range hooks.AllTypes {
		path := filepath.Join(dir, string(hookType)+".tengo.example")
		if fsutil.FileExists(path) {
			continue
		}
		if err := fsutil.WriteFileAtomic(path, []byte(hooks.HookTemplate(hookType)+"\n"), fsutil.FileModeDefault); err != nil {
			return fmt.Errorf("failed to write hook template: %w", err)
		}
	}
	printSuccess("Hook templates written to %s (rename to .tengo to enable)", dir)
	return nil
}
