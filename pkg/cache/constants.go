package cache

import "github.com/glorpus-work/nebula/pkg/fsutil"

const (
	// FormatVersion is written into every cache document.
	FormatVersion = "1"

	// CacheDirPerm is the permission mode for the cache directory (rwx------).
	CacheDirPerm = fsutil.DirModePrivate

	// CacheFilePerm is the permission mode for the cache document (rw-------).
	CacheFilePerm = fsutil.FileModePrivate

	lockSuffix = ".lock"
)
