package cli

import (
	"strings"

	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/sahilm/fuzzy"
)

// packageSource implements fuzzy.Source for aggregated packages.
type packageSource []model.AggregatedPackage

func (s packageSource) String(i int) string { return s[i].Name }
func (s packageSource) Len() int            { return len(s) }

// fuzzyFilterNames returns the names matching query, best match first.
func fuzzyFilterNames(query string, names []string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return names
	}
	matches := fuzzy.Find(query, names)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, names[m.Index])
	}
	return out
}

// fuzzyFilterPackages returns the packages whose name matches query, best match first.
func fuzzyFilterPackages(query string, pkgs []model.AggregatedPackage) []model.AggregatedPackage {
	query = strings.TrimSpace(query)
	if query == "" {
		return pkgs
	}
	matches := fuzzy.FindFrom(query, packageSource(pkgs))
	out := make([]model.AggregatedPackage, 0, len(matches))
	for _, m := range matches {
		out = append(out, pkgs[m.Index])
	}
	return out
}
