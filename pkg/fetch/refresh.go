// Package fetch assembles aggregated package records by querying dependencies
// and categories for many packages at a bounded level of concurrency.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/glorpus-work/nebula/internal/logger"
	"github.com/glorpus-work/nebula/pkg/category"
	"github.com/glorpus-work/nebula/pkg/deplist"
	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/model"
)

// DefaultConcurrency is the number of external queries allowed in flight.
const DefaultConcurrency = 5

// QueryFunc runs one external lookup for name and returns its raw output.
type QueryFunc func(ctx context.Context, name string) (string, error)

// BatchFunc resolves dependencies for several packages with a single lookup.
type BatchFunc func(ctx context.Context, names []string) (map[string][]string, error)

// Options control a refresh.
type Options struct {
	// Concurrency caps simultaneous external queries across all packages.
	Concurrency int
	Hooks       model.Hooks
}

// WithDefaults returns a copy of o with unset fields filled in.
func (o Options) WithDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// depsFunc yields the dependency names for one package.
type depsFunc func(ctx context.Context, sem *semaphore.Weighted, name string) []string

// Refresh builds one record per distinct candidate name. Each package runs in
// its own goroutine and every external query holds one permit of a shared
// pool for exactly the duration of that query. Failed queries degrade to an
// empty dependency list or the Unknown category. The result is sorted by name.
func Refresh(ctx context.Context, names []string, queryDeps, queryCategory QueryFunc, opts Options) []model.AggregatedPackage {
	deps := func(ctx context.Context, sem *semaphore.Weighted, name string) []string {
		out, err := query(ctx, sem, queryDeps, name)
		if err != nil {
			logger.Debug("Dependency query failed", logger.Fields{"package": name, "error": err.Error()})
			return nil
		}
		return deplist.ParseSingle(out, name)
	}
	return run(ctx, dedupe(names), deps, queryCategory, opts.WithDefaults())
}

// RefreshBatched behaves like Refresh but resolves all dependencies with one
// batched lookup before fanning out the category queries.
func RefreshBatched(ctx context.Context, names []string, batch BatchFunc, queryCategory QueryFunc, opts Options) []model.AggregatedPackage {
	opts = opts.WithDefaults()
	candidates := dedupe(names)
	sem := semaphore.NewWeighted(int64(opts.Concurrency))

	var all map[string][]string
	if len(candidates) > 0 {
		var err error
		if all, err = runBatch(ctx, sem, batch, candidates); err != nil {
			logger.Warn("Batched dependency query failed", logger.Fields{"error": err.Error()})
		}
	}

	deps := func(_ context.Context, _ *semaphore.Weighted, name string) []string {
		return all[name]
	}
	return runWith(ctx, sem, candidates, deps, queryCategory, opts)
}

func run(ctx context.Context, candidates []string, deps depsFunc, queryCategory QueryFunc, opts Options) []model.AggregatedPackage {
	return runWith(ctx, semaphore.NewWeighted(int64(opts.Concurrency)), candidates, deps, queryCategory, opts)
}

func runWith(ctx context.Context, sem *semaphore.Weighted, candidates []string, deps depsFunc, queryCategory QueryFunc, opts Options) []model.AggregatedPackage {
	results := make([]*model.AggregatedPackage, len(candidates))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i, name := range candidates {
		i, name := i, name // per-iteration copies (go directive < 1.22)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					err := errors.New(errors.KindTaskFailure, name, fmt.Sprint(r))
					logger.Error("Package task failed", logger.Fields{"package": name, "error": err.Error()})
					opts.Hooks.Emit(model.Event{Phase: "error", ID: name, Msg: err.Error()})
				}
			}()

			rec := assemble(ctx, sem, name, deps, queryCategory)
			results[i] = &rec

			mu.Lock()
			done++
			msg := fmt.Sprintf("%d/%d", done, len(candidates))
			mu.Unlock()
			opts.Hooks.Emit(model.Event{Phase: "fetching", ID: name, Msg: msg})
		}()
	}
	wg.Wait()

	out := make([]model.AggregatedPackage, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	model.SortByName(out)
	opts.Hooks.Emit(model.Event{Phase: "done", Msg: fmt.Sprintf("%d packages", len(out))})
	return out
}

func assemble(ctx context.Context, sem *semaphore.Weighted, name string, deps depsFunc, queryCategory QueryFunc) model.AggregatedPackage {
	depNames := deps(ctx, sem, name)

	cat := category.Unknown
	if group, err := query(ctx, sem, queryCategory, name); err != nil {
		logger.Debug("Category query failed", logger.Fields{"package": name, "error": err.Error()})
	} else {
		cat = category.Classify(group)
	}

	return model.NewAggregatedPackage(name, cat, depNames)
}

func runBatch(ctx context.Context, sem *semaphore.Weighted, batch BatchFunc, names []string) (out map[string][]string, err error) {
	if batch == nil {
		return nil, errors.ErrNotConfigured
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer sem.Release(1)
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errors.New(errors.KindTaskFailure, "deplist", fmt.Sprint(r))
		}
	}()
	return batch(ctx, names)
}

// query runs fn while holding one permit.
func query(ctx context.Context, sem *semaphore.Weighted, fn QueryFunc, name string) (string, error) {
	if fn == nil {
		return "", errors.ErrNotConfigured
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer sem.Release(1)
	return fn(ctx, name)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
