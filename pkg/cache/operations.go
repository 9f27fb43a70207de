package cache

import (
	"fmt"
	"time"

	"github.com/glorpus-work/nebula/internal/logger"
)

// CacheOperation renders cache management results for the command line.
type CacheOperation struct {
	manager Manager
}

// NewCacheOperation creates a new cache operation instance.
func NewCacheOperation(manager Manager) *CacheOperation {
	return &CacheOperation{
		manager: manager,
	}
}

// Clean removes the cache and returns a human-readable summary.
func (op *CacheOperation) Clean() (string, error) {
	logger.Debug("Cleaning cache", logger.Fields{"directory": op.manager.GetDirectory()})

	result, err := op.manager.Clean()
	if err != nil {
		return "", fmt.Errorf("failed to clean cache: %w", err)
	}

	if !result.Removed {
		return "No cache file to remove.", nil
	}
	return fmt.Sprintf("Successfully cleaned cache. Freed %s of disk space.", formatBytes(result.TotalFreed)), nil
}

// GetInfo returns a human-readable description of the cache.
func (op *CacheOperation) GetInfo() (string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return "", fmt.Errorf("failed to get cache info: %w", err)
	}

	if !info.Exists {
		return fmt.Sprintf(`Cache Information:
  File:         %s
  Status:       not populated`, info.Path), nil
	}

	generated := "unknown"
	if !info.GeneratedAt.IsZero() {
		generated = info.GeneratedAt.Local().Format(time.RFC1123)
	}

	return fmt.Sprintf(`Cache Information:
  File:         %s
  Size:         %s
  Packages:     %d
  Generated:    %s`,
		info.Path,
		formatBytes(info.Size),
		info.Entries,
		generated,
	), nil
}

// GetDirectory returns the cache directory path.
func (op *CacheOperation) GetDirectory() string {
	return op.manager.GetDirectory()
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	if exp < len(units) {
		return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
	}
	return fmt.Sprintf("%d B", bytes)
}
