package nevra

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
)

// Architectures lists the RPM architecture suffixes recognized by Parse.
var Architectures = []string{
	"x86_64",
	"i686",
	"i386",
	"aarch64",
	"armv7hl",
	"ppc64le",
	"s390x",
	"riscv64",
	"noarch",
	"src",
}

// NEVRA is a parsed name-epoch:version-release.arch identifier.
type NEVRA struct {
	Name    string `json:"name" yaml:"name"`
	Epoch   int    `json:"epoch,omitempty" yaml:"epoch,omitempty"`
	Version string `json:"version" yaml:"version"`
	Release string `json:"release" yaml:"release"`
	Arch    string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

// EVR returns the "[epoch:]version-release" part.
func (n NEVRA) EVR() string {
	var b strings.Builder
	if n.Epoch > 0 {
		b.WriteString(strconv.Itoa(n.Epoch))
		b.WriteByte(':')
	}
	b.WriteString(n.Version)
	if n.Release != "" {
		b.WriteByte('-')
		b.WriteString(n.Release)
	}
	return b.String()
}

func (n NEVRA) String() string {
	s := n.Name + "-" + n.EVR()
	if n.Arch != "" {
		s += "." + n.Arch
	}
	return s
}

// Parse splits a full NEVRA such as "bash-0:5.2.26-3.fc40.x86_64".
// It reports false when raw has no version-release part.
func Parse(raw string) (NEVRA, bool) {
	s := strings.TrimSpace(raw)
	var n NEVRA

	if dot := strings.LastIndexByte(s, '.'); dot > 0 && isArch(s[dot+1:]) {
		n.Arch = s[dot+1:]
		s = s[:dot]
	}

	relDash := strings.LastIndexByte(s, '-')
	if relDash <= 0 {
		return NEVRA{}, false
	}
	verDash := strings.LastIndexByte(s[:relDash], '-')
	if verDash <= 0 {
		return NEVRA{}, false
	}

	n.Name = s[:verDash]
	n.Release = s[relDash+1:]
	epoch, ver := splitEpoch(s[verDash+1 : relDash])
	n.Epoch = epoch
	n.Version = ver
	if n.Name == "" || n.Version == "" || n.Release == "" {
		return NEVRA{}, false
	}
	return n, true
}

func isArch(s string) bool {
	for _, a := range Architectures {
		if s == a {
			return true
		}
	}
	return false
}

func splitEpoch(s string) (int, string) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return 0, s
	}
	epoch, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s[i+1:]
	}
	return epoch, s[i+1:]
}

// CompareVersions orders two "[epoch:]version[-release]" strings and returns
// -1, 0 or 1. Segments that are not semver-like are compared lexically.
func CompareVersions(a, b string) int {
	ea, ra := splitEpoch(a)
	eb, rb := splitEpoch(b)
	if ea != eb {
		if ea < eb {
			return -1
		}
		return 1
	}

	va, rela := splitRelease(ra)
	vb, relb := splitRelease(rb)
	if c := compareSegment(va, vb); c != 0 {
		return c
	}
	return compareSegment(rela, relb)
}

func splitRelease(s string) (string, string) {
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func compareSegment(a, b string) int {
	if a == b {
		return 0
	}
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return strings.Compare(a, b)
}
