package cache_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glorpus-work/nebula/pkg/cache"
	"github.com/glorpus-work/nebula/pkg/category"
	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/fsutil"
	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePackages() []model.AggregatedPackage {
	return []model.AggregatedPackage{
		{Name: "htop", Category: category.Utility, Dependencies: []string{"glibc", "ncurses-libs"}},
		{Name: "gimp", Category: category.Multimedia, Dependencies: []string{"babl", "gegl"}},
	}
}

func TestLoad_Absent(t *testing.T) {
	store := cache.NewStore(filepath.Join(t.TempDir(), "missing", "cache.json"))

	pkgs, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, pkgs)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		pkgs []model.AggregatedPackage
		want []model.AggregatedPackage
	}{
		{
			name: "populated is stored sorted",
			pkgs: samplePackages(),
			want: []model.AggregatedPackage{
				{Name: "gimp", Category: category.Multimedia, Dependencies: []string{"babl", "gegl"}},
				{Name: "htop", Category: category.Utility, Dependencies: []string{"glibc", "ncurses-libs"}},
			},
		},
		{
			name: "empty collection is a valid cache",
			pkgs: []model.AggregatedPackage{},
			want: []model.AggregatedPackage{},
		},
		{
			name: "nil collection is stored as empty",
			pkgs: nil,
			want: []model.AggregatedPackage{},
		},
		{
			name: "nil dependencies come back empty",
			pkgs: []model.AggregatedPackage{{Name: "a", Category: category.Manual}},
			want: []model.AggregatedPackage{{Name: "a", Category: category.Manual, Dependencies: []string{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cache.NewStore(filepath.Join(t.TempDir(), "nested", "dir", fsutil.CacheFileName))

			require.NoError(t, store.Save(tt.pkgs))
			got, ok, err := store.Load()
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSave_Overwrites(t *testing.T) {
	store := cache.NewStore(filepath.Join(t.TempDir(), fsutil.CacheFileName))

	require.NoError(t, store.Save(samplePackages()))
	require.NoError(t, store.Save([]model.AggregatedPackage{}))

	got, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestSave_ConcurrentWritersLastWins(t *testing.T) {
	store := cache.NewStore(filepath.Join(t.TempDir(), fsutil.CacheFileName))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(samplePackages()))
		}()
	}
	wg.Wait()

	got, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, got, 2)
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cause   error
	}{
		{name: "truncated", content: "{not json"},
		{name: "null document", content: "null", cause: errors.ErrCacheMissingVersion},
		{name: "empty object", content: "{}", cause: errors.ErrCacheMissingVersion},
		{name: "null packages", content: `{"format_version":"1","packages":null}`, cause: errors.ErrCacheMissingPackages},
		{name: "missing packages", content: `{"format_version":"1"}`, cause: errors.ErrCacheMissingPackages},
		{name: "foreign document", content: `{"packages":[{"name":"htop"}]}`, cause: errors.ErrCacheMissingVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), fsutil.CacheFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), fsutil.FileModePrivate))

			got, ok, err := cache.NewStore(path).Load()
			require.Error(t, err)
			assert.Nil(t, got)
			assert.False(t, ok)
			assert.ErrorIs(t, err, errors.ErrCacheRead)
			assert.Equal(t, errors.KindCacheRead, errors.KindOf(err))
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestLoad_EmptyPackageList(t *testing.T) {
	path := filepath.Join(t.TempDir(), fsutil.CacheFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"format_version":"1","packages":[]}`), fsutil.FileModePrivate))

	got, ok, err := cache.NewStore(path).Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestLoad_LegacyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), fsutil.CacheFileName)
	legacy := `[{"name":"htop","category":"Utility","dependencies":["glibc"]}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), fsutil.FileModePrivate))

	got, ok, err := cache.NewStore(path).Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []model.AggregatedPackage{{Name: "htop", Category: category.Utility, Dependencies: []string{"glibc"}}}, got)
}

func TestSave_CreatesLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), fsutil.CacheFileName)
	require.NoError(t, cache.NewStore(path).Save(samplePackages()))
	assert.FileExists(t, path+".lock")

	_, err := cache.NewStore(path).Clean()
	require.NoError(t, err)
	assert.NoFileExists(t, path+".lock")
}

func TestSave_UnwritableDirectory(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, fsutil.FileModeDefault))

	err := cache.NewStore(filepath.Join(parent, "sub", fsutil.CacheFileName)).Save(samplePackages())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCacheWrite)
}

func TestInvalidate(t *testing.T) {
	store := cache.NewStore(filepath.Join(t.TempDir(), fsutil.CacheFileName))

	// Absent file is a no-op.
	require.NoError(t, store.Invalidate())

	require.NoError(t, store.Save(samplePackages()))
	require.NoError(t, store.Invalidate())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCleanAndInfo(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewStoreInDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.GetDirectory())

	info, err := store.GetInfo()
	require.NoError(t, err)
	assert.False(t, info.Exists)

	require.NoError(t, store.Save(samplePackages()))
	info, err = store.GetInfo()
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.Equal(t, 2, info.Entries)
	assert.Positive(t, info.Size)
	assert.False(t, info.GeneratedAt.IsZero())

	result, err := store.Clean()
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Equal(t, info.Size, result.TotalFreed)
	assert.NoFileExists(t, store.Path())
	assert.NoFileExists(t, store.Path()+".lock")

	result, err = store.Clean()
	require.NoError(t, err)
	assert.False(t, result.Removed)
}

func TestNewStoreInDir_Empty(t *testing.T) {
	_, err := cache.NewStoreInDir("")
	assert.ErrorIs(t, err, errors.ErrCacheDirectory)
}
