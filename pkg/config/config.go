// Package config provides configuration management for nebula.
// It handles loading, validating and saving application settings. YAML is the
// default file format; a path ending in .toml is read and written as TOML.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// General settings
	Settings Settings `yaml:"settings" toml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Cache settings
	CacheDir string `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`

	// Hook scripts are loaded from this directory
	HooksDir string `yaml:"hooks_dir,omitempty" toml:"hooks_dir,omitempty"`

	// Refresh settings
	Concurrency    int  `yaml:"concurrency" toml:"concurrency"`
	BatchedDeplist bool `yaml:"batched_deplist" toml:"batched_deplist"`

	// Operation settings
	CleanupOrphans   bool   `yaml:"cleanup_orphans" toml:"cleanup_orphans"`
	DNFBinary        string `yaml:"dnf_binary" toml:"dnf_binary"`
	RPMBinary        string `yaml:"rpm_binary" toml:"rpm_binary"`
	PrivilegeCommand string `yaml:"privilege_command" toml:"privilege_command"` // "none" runs privileged commands directly

	// Output settings
	OutputFormat string `yaml:"output_format" toml:"output_format"` // table, json, yaml
	LogFormat    string `yaml:"log_format" toml:"log_format"`       // text, json
	LogLevel     string `yaml:"log_level" toml:"log_level"`         // debug, info, warn, error
}

// Default configuration values.
const (
	// DefaultConcurrency is the default number of parallel dnf queries.
	DefaultConcurrency = 5

	// DefaultPrivilegeCommand wraps commands that change the system.
	DefaultPrivilegeCommand = "pkexec"

	// NoPrivilegeCommand disables the privilege wrapper.
	NoPrivilegeCommand = "none"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// Supported output and log formats.
var (
	OutputFormats = []string{"table", "json", "yaml"}
	LogFormats    = []string{"text", "json"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	cacheDir, err := fsutil.GetCacheDir()
	if err != nil {
		// Fallback to the temp directory if we can't determine the user cache dir
		cacheDir = filepath.Join(os.TempDir(), fsutil.AppName)
	}
	hooksDir, err := fsutil.GetHooksDir()
	if err != nil {
		hooksDir = ""
	}

	return &Config{
		Settings: Settings{
			CacheDir:         cacheDir,
			HooksDir:         hooksDir,
			Concurrency:      DefaultConcurrency,
			DNFBinary:        "dnf",
			RPMBinary:        "rpm",
			PrivilegeCommand: DefaultPrivilegeCommand,
			OutputFormat:     "table",
			LogFormat:        "text",
			LogLevel:         "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	// Validate the config file path
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}

	if isTOML(absPath) {
		return parse(data, decodeTOML)
	}
	return parse(data, yaml.Unmarshal)
}

// LoadConfigFromReader loads YAML configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}
	return parse(data, yaml.Unmarshal)
}

func decodeTOML(data []byte, v any) error {
	_, err := toml.Decode(string(data), v)
	return err
}

func parse(data []byte, unmarshal func([]byte, any) error) (*Config, error) {
	var config Config
	if err := unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	// Apply defaults and validate
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}

	return &config, nil
}

// SaveConfig atomically writes the configuration to path.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	var data []byte
	if isTOML(absPath) {
		data, err = c.ToTOML()
	} else {
		data, err = c.ToYAML()
	}
	if err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(absPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return buf.Bytes(), nil
}

// ToTOML converts the config to TOML bytes.
func (c *Config) ToTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return buf.Bytes(), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	return validateSettings(c.Settings)
}

func validateSettings(s Settings) error {
	if s.Concurrency < 1 {
		return errors.ErrConcurrencyInvalid
	}
	if !contains(OutputFormats, s.OutputFormat) {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	if !contains(LogFormats, s.LogFormat) {
		return errors.Wrapf(errors.ErrInvalidOutputFormat, "log format %q (use text or json)", s.LogFormat)
	}
	if !contains(LogLevels, strings.ToLower(s.LogLevel)) {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	if strings.TrimSpace(s.DNFBinary) == "" || strings.TrimSpace(s.RPMBinary) == "" {
		return errors.ErrEmptyBinary
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, fsutil.ConfigFileName), nil
}

// GetCacheDir returns the base cache directory from settings.
func (c *Config) GetCacheDir() string {
	return c.Settings.CacheDir
}

// GetCachePath returns the location of the package cache document.
func (c *Config) GetCachePath() string {
	return filepath.Join(c.Settings.CacheDir, fsutil.CacheFileName)
}

// GetHooksDir returns the directory hook scripts are loaded from.
func (c *Config) GetHooksDir() string {
	return c.Settings.HooksDir
}

// GetPrivilegeCommand returns the escalation helper, or "" when disabled.
func (c *Config) GetPrivilegeCommand() string {
	if strings.EqualFold(c.Settings.PrivilegeCommand, NoPrivilegeCommand) {
		return ""
	}
	return c.Settings.PrivilegeCommand
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.CacheDir == "" {
		c.Settings.CacheDir = defaults.Settings.CacheDir
	}
	if c.Settings.HooksDir == "" {
		c.Settings.HooksDir = defaults.Settings.HooksDir
	}
	if c.Settings.Concurrency == 0 {
		c.Settings.Concurrency = defaults.Settings.Concurrency
	}
	if c.Settings.DNFBinary == "" {
		c.Settings.DNFBinary = defaults.Settings.DNFBinary
	}
	if c.Settings.RPMBinary == "" {
		c.Settings.RPMBinary = defaults.Settings.RPMBinary
	}
	if c.Settings.PrivilegeCommand == "" {
		c.Settings.PrivilegeCommand = defaults.Settings.PrivilegeCommand
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = defaults.Settings.LogFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
