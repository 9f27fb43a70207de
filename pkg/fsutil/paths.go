package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths
	AppName = "nebula"

	// CacheFileName is the name of the aggregated package cache document.
	CacheFileName = "user_packages.json"

	// ConfigFileName is the default configuration file name.
	ConfigFileName = "config.yaml"

	// HooksDirName is the directory below the config dir holding hook scripts.
	HooksDirName = "hooks"
)

// GetCacheDir returns the per-user cache directory for the application.
// On Linux: ~/.cache/nebula/
func GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName), nil
}

// GetConfigDir returns the per-user configuration directory for the application.
// On Linux: ~/.config/nebula/
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// GetCachePath returns the location of the package cache document.
func GetCachePath() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, CacheFileName), nil
}

// GetHooksDir returns the directory user hook scripts are loaded from.
func GetHooksDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, HooksDirName), nil
}
