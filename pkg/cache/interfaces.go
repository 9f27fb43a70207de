package cache

import (
	"time"

	"github.com/glorpus-work/nebula/pkg/model"
)

// Manager defines the cache operations exposed on the command line.
type Manager interface {
	Load() ([]model.AggregatedPackage, bool, error)
	Save(pkgs []model.AggregatedPackage) error
	Invalidate() error
	Clean() (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed int64
	Removed    bool
}

// Info represents cache information.
type Info struct {
	Directory   string    `json:"directory" yaml:"directory"`
	Path        string    `json:"path" yaml:"path"`
	Exists      bool      `json:"exists" yaml:"exists"`
	Size        int64     `json:"size" yaml:"size"`
	Entries     int       `json:"entries" yaml:"entries"`
	ModTime     time.Time `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
}

// document is the on-disk layout of the cache file.
type document struct {
	FormatVersion string                    `json:"format_version"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	Packages      []model.AggregatedPackage `json:"packages"`
}
