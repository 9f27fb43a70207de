// Package deplist reconstructs dependency sets from dnf's line-oriented output.
package deplist

import (
	"bufio"
	"regexp"
	"sort"
	"strings"

	"github.com/glorpus-work/nebula/pkg/nevra"
)

var (
	headerRe   = regexp.MustCompile(`^package:\s*(.+)`)
	providerRe = regexp.MustCompile(`^\s+provider:\s*(.+)`)
)

// noisePrefixes are informational lines dnf mixes into query output.
var noisePrefixes = []string{
	"last metadata expiration check",
	"updating and loading repositories",
	"repositories loaded",
	"no matches found",
}

// ParseMulti parses the output of one batched "dnf deplist" call into a map
// of package name to its sorted, unique dependency names. Every package header
// yields an entry, even when it lists no providers.
func ParseMulti(text string) map[string][]string {
	sets := make(map[string]map[string]struct{})
	current := ""

	scanner := newScanner(text)
	for scanner.Scan() {
		line := scanner.Text()

		if m := headerRe.FindStringSubmatch(line); m != nil {
			current = nevra.Normalize(m[1])
			if current != "" {
				if _, ok := sets[current]; !ok {
					sets[current] = make(map[string]struct{})
				}
			}
			continue
		}

		if current == "" {
			continue
		}
		if m := providerRe.FindStringSubmatch(line); m != nil {
			dep := nevra.Normalize(m[1])
			if dep != "" && dep != current {
				sets[current][dep] = struct{}{}
			}
		}
	}

	out := make(map[string][]string, len(sets))
	for name, deps := range sets {
		out[name] = sortedKeys(deps)
	}
	return out
}

// ParseSingle parses one requirement per line for owner and returns the sorted,
// unique dependency names. A "none" or "(none)" line yields an empty result.
func ParseSingle(text, owner string) []string {
	deps := make(map[string]struct{})

	scanner := newScanner(text)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || IsNoise(line) {
			continue
		}
		if IsNoneMarker(line) {
			return []string{}
		}
		if dep := nevra.Normalize(line); dep != "" && dep != owner {
			deps[dep] = struct{}{}
		}
	}
	return sortedKeys(deps)
}

// IsNoise reports whether line is a dnf informational notice rather than data.
func IsNoise(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	for _, p := range noisePrefixes {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return false
}

// IsNoneMarker reports whether line is the literal "none" marker.
func IsNoneMarker(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	return l == "none" || l == "(none)"
}

func newScanner(text string) *bufio.Scanner {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
