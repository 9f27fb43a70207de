package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath        = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath      = fmt.Errorf("invalid config file path")
	ErrConfigParse            = fmt.Errorf("failed to parse config")
	ErrConfigValidation       = fmt.Errorf("invalid configuration")
	ErrConfigEncode           = fmt.Errorf("failed to encode config")
	ErrConfigDirectory        = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate       = fmt.Errorf("failed to create config file")
	ErrConfigFileRename       = fmt.Errorf("failed to rename config file")
	ErrConfigUnknownKey       = fmt.Errorf("unknown configuration key")
	ErrConcurrencyInvalid     = fmt.Errorf("concurrency must be at least 1")
	ErrInvalidOutputFormat    = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel        = fmt.Errorf("invalid log level")
	ErrEmptyBinary            = fmt.Errorf("tool binary cannot be empty")
	ErrUnsupportedConfigTypes = fmt.Errorf("unsupported config file extension")

	// Cache errors.
	ErrCacheClean     = fmt.Errorf("failed to clean cache")
	ErrCacheInfo      = fmt.Errorf("failed to get cache info")
	ErrCacheDirectory = fmt.Errorf("cache directory cannot be empty")
	ErrCacheRead      = fmt.Errorf("failed to read package cache")
	ErrCacheWrite     = fmt.Errorf("failed to write package cache")
	ErrCacheLock      = fmt.Errorf("failed to lock package cache")

	ErrCacheMissingVersion  = fmt.Errorf("cache document has no format version")
	ErrCacheMissingPackages = fmt.Errorf("cache document has no package list")

	// External tool errors.
	ErrToolLaunch  = fmt.Errorf("failed to launch external tool")
	ErrToolFailed  = fmt.Errorf("external tool exited with non-zero status")
	ErrTaskFailure = fmt.Errorf("package task failed")

	// Operation errors.
	ErrInvalidPackageName = fmt.Errorf("package name cannot be empty")
	ErrPackageNameOption  = fmt.Errorf("package name cannot start with '-'")
	ErrInvalidMode        = fmt.Errorf("invalid uninstall mode")
	ErrNotConfigured      = fmt.Errorf("component is not configured")

	// Hook errors.
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrInvalidOutputFormatWithDetails returns a formatted error for an unsupported output format.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: %q (use table, json or yaml)", ErrInvalidOutputFormat, format)
}

// ErrInvalidLogLevelWithDetails returns a formatted error for an unsupported log level.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: %q (use debug, info, warn or error)", ErrInvalidLogLevel, level)
}

// ErrUnknownConfigKeyWithName returns a formatted error for an unknown key.
func ErrUnknownConfigKeyWithName(key string) error {
	return fmt.Errorf("%w: %s", ErrConfigUnknownKey, key)
}
