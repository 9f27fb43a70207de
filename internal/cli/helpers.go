package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/glorpus-work/nebula/internal/logger"
	"github.com/glorpus-work/nebula/pkg/aggregator"
	"github.com/glorpus-work/nebula/pkg/cache"
	"github.com/glorpus-work/nebula/pkg/config"
	"github.com/glorpus-work/nebula/pkg/dnf"
	"github.com/glorpus-work/nebula/pkg/fetch"
	"github.com/glorpus-work/nebula/pkg/hooks"
	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/glorpus-work/nebula/pkg/orchestrator"
	"github.com/glorpus-work/nebula/pkg/runner"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects command output and progress messages.
func SetOutput(out, errOut io.Writer) {
	stdout, stderr = out, errOut
}

// loadConfig loads the configuration, applies the global flags and
// initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	logger.InitLogger(cfg.Settings.LogLevel, logger.OutputFormat(cfg.Settings.LogFormat))
	return cfg, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		// An empty path makes LoadConfig/SaveConfig report a descriptive error.
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

// app bundles the components one command invocation needs.
type app struct {
	cfg     *config.Config
	store   *cache.Store
	service *aggregator.Service
}

// newApp wires runner, dnf client, cache, fetcher and executor from cfg.
func newApp(cfg *config.Config, events model.Hooks) (*app, error) {
	store := cache.NewStore(cfg.GetCachePath())

	exec := runner.NewExecRunner()
	privileged := runner.NewPrivileged(exec, cfg.GetPrivilegeCommand())
	commands := dnf.NewCommands(cfg.Settings.DNFBinary, cfg.Settings.RPMBinary)
	client := dnf.NewClient(exec, commands)

	fetcher := fetch.New(client, store, fetch.Options{
		Concurrency: cfg.Settings.Concurrency,
		Hooks:       events,
	})
	fetcher.Batched = cfg.Settings.BatchedDeplist

	hookManager := hooks.NewHookManager()
	if err := hooks.LoadHooksFromDir(hookManager, cfg.GetHooksDir()); err != nil {
		return nil, fmt.Errorf("failed to load hooks: %w", err)
	}

	executor := orchestrator.New(exec, privileged, commands, store, hookManager, events)

	return &app{
		cfg:     cfg,
		store:   store,
		service: aggregator.New(client, store, fetcher, executor),
	}, nil
}

// progressHooks reports progress on stderr for table output and as debug
// logs otherwise, keeping stdout machine-readable.
func progressHooks(cfg *config.Config) model.Hooks {
	if cfg.Settings.OutputFormat != formatTable {
		return model.Hooks{OnEvent: func(e model.Event) {
			logger.Debug("progress", logger.Fields{"phase": e.Phase, "id": e.ID, "msg": e.Msg})
		}}
	}
	return model.Hooks{OnEvent: func(e model.Event) {
		switch e.Phase {
		case "fetching", "done":
			// the final result is printed by the command itself
			logger.Debug("progress", logger.Fields{"phase": e.Phase, "id": e.ID, "msg": e.Msg})
		default:
			printPhase(e)
		}
	}}
}
