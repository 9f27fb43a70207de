// Package cache persists aggregated package records in a single JSON document.
package cache

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/fsutil"
	"github.com/glorpus-work/nebula/pkg/model"
)

// Store is a file-backed cache of aggregated packages. Saves are serialized
// within the process by a mutex and across processes by an flock lock file.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// NewDefaultStore creates a store at the per-user default location.
func NewDefaultStore() (*Store, error) {
	path, err := fsutil.GetCachePath()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user cache directory")
	}
	return NewStore(path), nil
}

// NewStoreInDir creates a store whose document lives in dir.
func NewStoreInDir(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.ErrCacheDirectory
	}
	return NewStore(filepath.Join(dir, fsutil.CacheFileName)), nil
}

// Path returns the location of the cache document.
func (s *Store) Path() string {
	return s.path
}

// GetDirectory returns the directory holding the cache document.
func (s *Store) GetDirectory() string {
	return filepath.Dir(s.path)
}

// Load reads the cached packages. The boolean is false when no cache file
// exists; a present file holding zero packages is a valid, empty cache.
func (s *Store) Load() ([]model.AggregatedPackage, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.E(errors.KindCacheRead, "load "+s.path, err)
	}

	pkgs, err := decode(data)
	if err != nil {
		return nil, false, errors.E(errors.KindCacheRead, "decode "+s.path, err)
	}
	return pkgs, true, nil
}

func decode(data []byte) ([]model.AggregatedPackage, error) {
	trimmed := bytes.TrimSpace(data)

	// Older caches stored a bare array.
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pkgs []model.AggregatedPackage
		if err := json.Unmarshal(trimmed, &pkgs); err != nil {
			return nil, err
		}
		return normalize(pkgs), nil
	}

	var doc struct {
		FormatVersion string                     `json:"format_version"`
		Packages      *[]model.AggregatedPackage `json:"packages"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	if doc.FormatVersion == "" {
		return nil, errors.ErrCacheMissingVersion
	}
	if doc.Packages == nil {
		return nil, errors.ErrCacheMissingPackages
	}
	return normalize(*doc.Packages), nil
}

func normalize(pkgs []model.AggregatedPackage) []model.AggregatedPackage {
	if pkgs == nil {
		return []model.AggregatedPackage{}
	}
	for i := range pkgs {
		if pkgs[i].Dependencies == nil {
			pkgs[i].Dependencies = []string{}
		}
	}
	return pkgs
}

// Save writes the full package list, replacing any previous document.
func (s *Store) Save(pkgs []model.AggregatedPackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), CacheDirPerm); err != nil {
		return errors.E(errors.KindCacheWrite, "create cache directory", err)
	}

	release, err := s.lock()
	if err != nil {
		return errors.E(errors.KindCacheWrite, "lock "+s.path, errors.Wrap(errors.ErrCacheLock, err.Error()))
	}
	defer release()

	sorted := make([]model.AggregatedPackage, len(pkgs))
	copy(sorted, pkgs)
	model.SortByName(sorted)

	data, err := json.MarshalIndent(document{
		FormatVersion: FormatVersion,
		GeneratedAt:   s.now().UTC(),
		Packages:      normalize(sorted),
	}, "", "  ")
	if err != nil {
		return errors.E(errors.KindCacheWrite, "encode cache", err)
	}

	if err := fsutil.WriteFileAtomic(s.path, data, CacheFilePerm); err != nil {
		return errors.E(errors.KindCacheWrite, "write "+s.path, err)
	}
	return nil
}

// lock takes an exclusive flock on the sidecar lock file so concurrent
// nebula processes never interleave writes of the document.
func (s *Store) lock() (func(), error) {
	f, err := os.OpenFile(s.path+lockSuffix, os.O_CREATE|os.O_RDWR, CacheFilePerm)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
	}, nil
}

// Invalidate deletes the cache document. A missing document is not an error.
func (s *Store) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.E(errors.KindCacheWrite, "invalidate "+s.path, err)
	}
	return nil
}

// Clean removes the cache document and its lock file.
func (s *Store) Clean() (*CleanResult, error) {
	result := &CleanResult{}
	if info, err := os.Stat(s.path); err == nil {
		result.TotalFreed = info.Size()
		result.Removed = true
	}

	if err := s.Invalidate(); err != nil {
		return nil, errors.Wrap(errors.ErrCacheClean, err.Error())
	}
	if err := os.Remove(s.path + lockSuffix); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(errors.ErrCacheClean, "remove lock file: %v", err)
	}
	return result, nil
}

// GetInfo returns information about the cache document.
func (s *Store) GetInfo() (*Info, error) {
	info := &Info{
		Directory: s.GetDirectory(),
		Path:      s.path,
	}

	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return info, nil
		}
		return nil, errors.Wrap(errors.ErrCacheInfo, err.Error())
	}
	info.Exists = true
	info.Size = stat.Size()
	info.ModTime = stat.ModTime()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCacheInfo, err.Error())
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err == nil {
		info.Entries = len(doc.Packages)
		info.GeneratedAt = doc.GeneratedAt
	} else if pkgs, derr := decode(data); derr == nil {
		info.Entries = len(pkgs)
	}
	return info, nil
}
