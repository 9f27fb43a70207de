package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, overridden with -ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version information for nebula",
		Run:   runVersion,
	}

	return cmd
}

func runVersion(*cobra.Command, []string) {
	_, _ = fmt.Fprintf(stdout, "nebula version %s\n", Version)
	_, _ = fmt.Fprintf(stdout, "Build date: %s\n", BuildDate)
	_, _ = fmt.Fprintf(stdout, "Git commit: %s\n", GitCommit)
}
