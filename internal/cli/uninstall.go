package cli

import (
	"context"
	"fmt"

	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	var (
		force          bool
		dryRun         bool
		cleanupOrphans bool
	)

	cmd := &cobra.Command{
		Use:     "uninstall PACKAGE",
		Aliases: []string{"remove"},
		Short:   "Uninstall a package",
		Long: `Remove one installed package.

By default the package is removed with dnf, which also removes packages that
depend on it. --force removes only the package with rpm, ignoring dependency
checks. --dry-run reports what would happen without changing the system.

--cleanup-orphans runs dnf autoremove after a successful default removal; if
that step fails the whole operation is reported as failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := model.ModeFromFlags(force, dryRun)
			return runUninstall(cmd.Context(), args[0], mode, cleanupOrphans, cmd.Flags().Changed("cleanup-orphans"))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove only this package, ignoring dependency checks")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be removed without removing anything")
	cmd.Flags().BoolVar(&cleanupOrphans, "cleanup-orphans", false, "Remove orphaned dependencies afterwards (defaults to config)")

	return cmd
}

func runUninstall(ctx context.Context, name string, mode model.UninstallMode, cleanup, cleanupSet bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cleanupSet {
		cleanup = cfg.Settings.CleanupOrphans
	}
	a, err := newApp(cfg, progressHooks(cfg))
	if err != nil {
		return err
	}

	outcome, err := a.service.UninstallPackage(ctx, name, mode, cleanup)
	if err != nil {
		return fmt.Errorf("failed to uninstall %s: %w", name, err)
	}
	return reportOutcome(cfg.Settings.OutputFormat, outcome)
}
