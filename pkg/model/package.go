// Package model provides the records exchanged between the aggregation
// pipeline, the cache and the command line.
package model

import (
	"sort"

	"github.com/glorpus-work/nebula/pkg/category"
)

// AggregatedPackage is one user-installed package with its direct
// dependencies and functional category. Dependencies are sorted, unique and
// never contain Name itself.
type AggregatedPackage struct {
	Name         string            `json:"name" yaml:"name"`
	Category     category.Category `json:"category" yaml:"category"`
	Dependencies []string          `json:"dependencies" yaml:"dependencies"`
}

// NewAggregatedPackage assembles a record, enforcing the dependency invariants.
func NewAggregatedPackage(name string, cat category.Category, deps []string) AggregatedPackage {
	seen := make(map[string]struct{}, len(deps))
	clean := make([]string, 0, len(deps))
	for _, d := range deps {
		if d == "" || d == name {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		clean = append(clean, d)
	}
	sort.Strings(clean)

	if cat == "" {
		cat = category.Unknown
	}
	return AggregatedPackage{Name: name, Category: cat, Dependencies: clean}
}

// SortByName orders packages by name in place.
func SortByName(pkgs []AggregatedPackage) {
	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].Name < pkgs[j].Name
	})
}

// FilterByCategory returns the packages whose category is one of cats.
// With no categories the input is returned unchanged.
func FilterByCategory(pkgs []AggregatedPackage, cats ...category.Category) []AggregatedPackage {
	if len(cats) == 0 {
		return pkgs
	}
	want := make(map[category.Category]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}
	out := make([]AggregatedPackage, 0, len(pkgs))
	for _, p := range pkgs {
		if want[p.Category] {
			out = append(out, p)
		}
	}
	return out
}
