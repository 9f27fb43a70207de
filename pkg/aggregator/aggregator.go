//go:generate mockgen -destination=./mocks/aggregator.go . PackageSource,CacheReader,Refresher,Operator

// Package aggregator exposes the package listing and modification operations
// on top of dnf, the package cache and the operation executor.
package aggregator

import (
	"context"

	"github.com/glorpus-work/nebula/internal/logger"
	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/glorpus-work/nebula/pkg/nevra"
)

// PackageSource is the subset of the dnf client used for listings.
type PackageSource interface {
	InstalledNames(ctx context.Context) ([]string, error)
	UserInstalledSpecs(ctx context.Context) ([]string, error)
	InstalledVersions(ctx context.Context) (map[string]string, error)
}

// CacheReader loads previously aggregated records.
type CacheReader interface {
	Load() ([]model.AggregatedPackage, bool, error)
}

// Refresher assembles and persists records for candidate names.
type Refresher interface {
	Refresh(ctx context.Context, names []string) ([]model.AggregatedPackage, error)
}

// Operator performs update and removal operations.
type Operator interface {
	Update(ctx context.Context, name string) (*model.OperationOutcome, error)
	Uninstall(ctx context.Context, name string, mode model.UninstallMode, cleanupOrphans bool) (*model.OperationOutcome, error)
}

// Service ties the package source, cache, fetcher and executor together.
type Service struct {
	Source   PackageSource
	Cache    CacheReader
	Fetcher  Refresher
	Executor Operator
}

// New constructs a Service. Helper for wiring.
func New(src PackageSource, cache CacheReader, fetcher Refresher, exec Operator) *Service {
	return &Service{Source: src, Cache: cache, Fetcher: fetcher, Executor: exec}
}

// ListAllPackages returns the sorted base names of every installed package.
func (s *Service) ListAllPackages(ctx context.Context) ([]string, error) {
	if s.Source == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "package source")
	}
	names, err := s.Source.InstalledNames(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list installed packages")
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ListInstalledVersions maps every installed package to its newest installed version.
func (s *Service) ListInstalledVersions(ctx context.Context) (map[string]string, error) {
	if s.Source == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "package source")
	}
	versions, err := s.Source.InstalledVersions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list installed versions")
	}
	return versions, nil
}

// ListUserPackages returns the user-installed packages with their category and
// dependencies. A cached result is returned unless forceRefresh is set.
func (s *Service) ListUserPackages(ctx context.Context, forceRefresh bool) ([]model.AggregatedPackage, error) {
	if s.Source == nil || s.Fetcher == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "package source")
	}

	if !forceRefresh && s.Cache != nil {
		pkgs, ok, err := s.Cache.Load()
		switch {
		case err != nil:
			logger.Warn("Ignoring unreadable package cache", logger.Fields{"error": err.Error()})
		case ok:
			logger.Debug("Using cached package records", logger.Fields{"count": len(pkgs)})
			return pkgs, nil
		}
	}

	specs, err := s.Source.UserInstalledSpecs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user-installed packages")
	}
	installed, err := s.Source.InstalledNames(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list installed packages")
	}

	present := make(map[string]struct{}, len(installed))
	for _, n := range installed {
		present[n] = struct{}{}
	}
	candidates := make([]string, 0, len(specs))
	for _, n := range nevra.NormalizeAll(specs) {
		if _, ok := present[n]; ok {
			candidates = append(candidates, n)
		}
	}

	pkgs, err := s.Fetcher.Refresh(ctx, candidates)
	if err != nil && errors.KindOf(err) != errors.KindCacheWrite {
		return nil, err
	}
	if pkgs == nil {
		pkgs = []model.AggregatedPackage{}
	}
	return pkgs, nil
}

// UpdatePackage updates one package.
func (s *Service) UpdatePackage(ctx context.Context, name string) (*model.OperationOutcome, error) {
	if s.Executor == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "operation executor")
	}
	return s.Executor.Update(ctx, name)
}

// UninstallPackage removes one package using mode.
func (s *Service) UninstallPackage(ctx context.Context, name string, mode model.UninstallMode, cleanupOrphans bool) (*model.OperationOutcome, error) {
	if s.Executor == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "operation executor")
	}
	return s.Executor.Uninstall(ctx, name, mode, cleanupOrphans)
}
