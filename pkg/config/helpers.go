package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/glorpus-work/nebula/pkg/errors"
)

// SetValue sets a configuration value by key
// Supported keys:
//   - cache_dir, hooks_dir: string - directories
//   - concurrency: int - parallel dnf queries, at least 1
//   - batched_deplist, cleanup_orphans: bool
//   - dnf_binary, rpm_binary, privilege_command: string - tools to run
//   - output_format: string - table, json or yaml
//   - log_format: string - text or json
//   - log_level: string - debug, info, warn or error
//
// The resulting configuration is validated.
func (c *Config) SetValue(key, value string) error {
	next := *c
	s := &next.Settings
	switch key {
	case "cache_dir":
		s.CacheDir = value
	case "hooks_dir":
		s.HooksDir = value
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		s.Concurrency = n
	case "batched_deplist", "cleanup_orphans":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		if key == "batched_deplist" {
			s.BatchedDeplist = b
		} else {
			s.CleanupOrphans = b
		}
	case "dnf_binary":
		s.DNFBinary = value
	case "rpm_binary":
		s.RPMBinary = value
	case "privilege_command":
		s.PrivilegeCommand = value
	case "output_format":
		s.OutputFormat = value
	case "log_format":
		s.LogFormat = value
	case "log_level":
		s.LogLevel = strings.ToLower(value)
	default:
		return errors.ErrUnknownConfigKeyWithName(key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// GetValue returns the value of key as a string.
func (c *Config) GetValue(key string) (string, error) {
	value, ok := c.ToMap()[key]
	if !ok {
		return "", errors.ErrUnknownConfigKeyWithName(key)
	}
	return value, nil
}

// ToMap flattens the settings into key/value strings.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		// Handle yaml tags with options (e.g., "cache_dir,omitempty")
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		switch fieldValue.Kind() {
		case reflect.Bool:
			result[yamlKey] = strconv.FormatBool(fieldValue.Bool())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			result[yamlKey] = strconv.FormatInt(fieldValue.Int(), 10)
		case reflect.String:
			result[yamlKey] = fieldValue.String()
		default:
			result[yamlKey] = fmt.Sprintf("%v", fieldValue.Interface())
		}
	}

	return result
}
