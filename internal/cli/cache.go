package cli

import (
	"fmt"

	"github.com/glorpus-work/nebula/internal/logger"
	"github.com/glorpus-work/nebula/pkg/cache"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the package cache",
		Long:  "Clean, show information about, and locate the cached package list",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the package cache",
		Long:  "Remove the cached package list so the next listing queries dnf again",
		RunE: func(*cobra.Command, []string) error {
			return runCacheClean()
		},
	}

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display information about the cached package list",
		RunE: func(*cobra.Command, []string) error {
			return runCacheInfo()
		},
	}

	return cmd
}

func newCacheDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the cache directory",
		RunE: func(*cobra.Command, []string) error {
			return runCacheDir()
		},
	}

	return cmd
}

func cacheOperation() (*cache.CacheOperation, *cache.Store, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	store := cache.NewStore(cfg.GetCachePath())
	return cache.NewCacheOperation(store), store, cfg.Settings.OutputFormat, nil
}

func runCacheClean() error {
	op, _, _, err := cacheOperation()
	if err != nil {
		return err
	}

	msg, err := op.Clean()
	if err != nil {
		return err
	}

	logger.Debug("Cache cleaning completed")
	printSuccess("%s", msg)
	return nil
}

func runCacheInfo() error {
	op, store, format, err := cacheOperation()
	if err != nil {
		return err
	}

	if format != formatTable {
		info, err := store.GetInfo()
		if err != nil {
			return err
		}
		_, err = writeStructured(format, info)
		return err
	}

	msg, err := op.GetInfo()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, msg)
	return nil
}

func runCacheDir() error {
	op, _, _, err := cacheOperation()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stdout, op.GetDirectory())
	return nil
}
