package fetch

import (
	"context"

	"github.com/glorpus-work/nebula/internal/logger"
	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/model"
)

// Source is the subset of the dnf client used to assemble records.
type Source interface {
	Requires(ctx context.Context, name string) (string, error)
	Group(ctx context.Context, name string) (string, error)
	Deplist(ctx context.Context, specs []string) (map[string][]string, error)
}

// Saver persists a completed refresh.
type Saver interface {
	Save(pkgs []model.AggregatedPackage) error
}

// Fetcher runs refreshes against a Source and persists every result.
type Fetcher struct {
	Source  Source
	Store   Saver
	Options Options
	// Batched resolves dependencies with one deplist call instead of one query per package.
	Batched bool
}

// New constructs a Fetcher.
func New(src Source, store Saver, opts Options) *Fetcher {
	return &Fetcher{Source: src, Store: store, Options: opts}
}

// Refresh assembles records for names and saves them. A save failure is
// logged and returned next to the still valid records.
func (f *Fetcher) Refresh(ctx context.Context, names []string) ([]model.AggregatedPackage, error) {
	if f.Source == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "package source")
	}

	logger.Debug("Refreshing package records", logger.Fields{
		"candidates":  len(names),
		"concurrency": f.Options.WithDefaults().Concurrency,
		"batched":     f.Batched,
	})

	var pkgs []model.AggregatedPackage
	if f.Batched {
		pkgs = RefreshBatched(ctx, names, f.Source.Deplist, f.Source.Group, f.Options)
	} else {
		pkgs = Refresh(ctx, names, f.Source.Requires, f.Source.Group, f.Options)
	}

	if f.Store == nil {
		return pkgs, nil
	}
	if err := f.Store.Save(pkgs); err != nil {
		logger.Warn("Failed to save package cache", logger.Fields{"error": err.Error()})
		return pkgs, err
	}
	return pkgs, nil
}
