package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/spf13/cobra"
)

// errOperationFailed is returned when dnf or rpm reported a failure, so the
// process exits non-zero after the outcome was printed.
var errOperationFailed = errors.New("operation failed")

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update PACKAGE",
		Short: "Update a package",
		Long: `Update one installed package with dnf. The command runs through the
configured privilege helper (pkexec by default).

pre-update and post-update hook scripts from the hooks directory run around
the update.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), args[0])
		},
	}

	return cmd
}

func runUpdate(ctx context.Context, name string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, progressHooks(cfg))
	if err != nil {
		return err
	}

	outcome, err := a.service.UpdatePackage(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", name, err)
	}
	return reportOutcome(cfg.Settings.OutputFormat, outcome)
}

// reportOutcome prints outcome and turns a failed operation into an error.
func reportOutcome(format string, outcome *model.OperationOutcome) error {
	ok, err := writeStructured(format, outcome)
	if err != nil {
		return err
	}
	if !ok {
		if outcome.Success {
			printSuccess("%s", outcome.Message)
			if Verbose != nil && *Verbose {
				printDetail(outcome.Details)
			}
		} else {
			printFailure("%s", outcome.Message)
			printDetail(outcome.Details)
		}
	}
	if !outcome.Success {
		return errOperationFailed
	}
	return nil
}
