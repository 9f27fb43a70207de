package fetch_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/nebula/pkg/cache"
	"github.com/glorpus-work/nebula/pkg/category"
	"github.com/glorpus-work/nebula/pkg/dnf"
	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/fetch"
	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/glorpus-work/nebula/pkg/runner"
	mock_runner "github.com/glorpus-work/nebula/pkg/runner/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type failingSaver struct{}

func (failingSaver) Save([]model.AggregatedPackage) error {
	return errors.New(errors.KindCacheWrite, "save", "read-only file system")
}

func TestFetcher_RefreshPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)

	r.EXPECT().Run(gomock.Any(), "dnf", "repoquery", "--installed", "--requires", "--resolve", "--quiet", "htop").
		Return(&runner.Result{Stdout: []byte("glibc-0:2.39-6.fc40.x86_64\n")}, nil).Times(1)
	r.EXPECT().Run(gomock.Any(), "rpm", "-q", "--queryformat", "%{GROUP}", "htop").
		Return(&runner.Result{Stdout: []byte("Applications/System")}, nil).Times(1)
	r.EXPECT().Run(gomock.Any(), "dnf", "repoquery", "--installed", "--requires", "--resolve", "--quiet", "ghost").
		Return(&runner.Result{ExitCode: 1, Stderr: []byte("No match for argument: ghost")}, nil).Times(1)
	r.EXPECT().Run(gomock.Any(), "rpm", "-q", "--queryformat", "%{GROUP}", "ghost").
		Return(&runner.Result{ExitCode: 1, Stdout: []byte("package ghost is not installed")}, nil).Times(1)

	store := cache.NewStore(filepath.Join(t.TempDir(), "user_packages.json"))
	f := fetch.New(dnf.NewClient(r, dnf.NewCommands("", "")), store, fetch.Options{Concurrency: 2})

	pkgs, err := f.Refresh(context.Background(), []string{"htop", "ghost"})
	require.NoError(t, err)
	want := []model.AggregatedPackage{
		{Name: "ghost", Category: category.Unknown, Dependencies: []string{}},
		{Name: "htop", Category: category.OtherApplication, Dependencies: []string{"glibc"}},
	}
	assert.Equal(t, want, pkgs)

	cached, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, cached)
}

func TestFetcher_Batched(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)

	r.EXPECT().Run(gomock.Any(), "dnf", "deplist", "foo").
		Return(&runner.Result{Stdout: []byte("package: foo-1.0-1.x86_64\n  provider: bar-2.0-1.x86_64\n")}, nil).Times(1)
	r.EXPECT().Run(gomock.Any(), "rpm", "-q", "--queryformat", "%{GROUP}", "foo").
		Return(&runner.Result{Stdout: []byte("Development/Libraries")}, nil).Times(1)

	f := fetch.New(dnf.NewClient(r, dnf.NewCommands("", "")), nil, fetch.Options{})
	f.Batched = true

	pkgs, err := f.Refresh(context.Background(), []string{"foo"})
	require.NoError(t, err)
	assert.Equal(t, []model.AggregatedPackage{{Name: "foo", Category: category.Development, Dependencies: []string{"bar"}}}, pkgs)
}

type stubSource struct{}

func (stubSource) Requires(context.Context, string) (string, error) { return "", nil }
func (stubSource) Group(context.Context, string) (string, error)    { return "", nil }
func (stubSource) Deplist(context.Context, []string) (map[string][]string, error) {
	return nil, fmt.Errorf("unused")
}

func TestFetcher_SaveFailureKeepsResult(t *testing.T) {
	f := fetch.New(stubSource{}, failingSaver{}, fetch.Options{})

	pkgs, err := f.Refresh(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, errors.KindCacheWrite, errors.KindOf(err))
	require.Len(t, pkgs, 1)
	assert.Equal(t, "a", pkgs[0].Name)
}

func TestFetcher_NoSource(t *testing.T) {
	_, err := (&fetch.Fetcher{}).Refresh(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, errors.ErrNotConfigured)
}
