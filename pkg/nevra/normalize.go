// Package nevra turns package manager output tokens into canonical package names.
package nevra

import (
	"path"
	"regexp"
	"strings"
)

// perlPrefix marks module capabilities that are kept verbatim.
const perlPrefix = "perl("

// nameVersionRe splits "<name>[-<digit>...]"; the lazy name group stops at
// the first "-<digit>" boundary.
var nameVersionRe = regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9._+-]*?)(?:-([0-9].*))?$`)

// Normalize maps a NEVRA string, capability expression or absolute file path
// to its base package name. It returns "" only for blank input.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "/") {
		return path.Base(s)
	}

	if strings.HasPrefix(s, perlPrefix) {
		return s
	}
	if i := strings.IndexByte(s, '('); i >= 0 {
		if prefix := strings.TrimSpace(s[:i]); prefix != "" {
			return prefix
		}
		return s
	}

	if m := nameVersionRe.FindStringSubmatch(s); m != nil && m[1] != "" {
		return m[1]
	}
	return s
}

// NormalizeAll normalizes every entry and drops blank results. Order is kept.
func NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if n := Normalize(r); n != "" {
			out = append(out, n)
		}
	}
	return out
}
