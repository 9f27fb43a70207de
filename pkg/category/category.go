// Package category maps RPM group strings to a fixed set of functional categories.
package category

import (
	"encoding/json"
	"strings"
)

// Category is a functional classification of a package.
type Category string

// Supported categories.
const (
	Manual             Category = "Manual"
	DesktopEnvironment Category = "DesktopEnvironment"
	System             Category = "System"
	Library            Category = "Library"
	Development        Category = "Development"
	Multimedia         Category = "Multimedia"
	Office             Category = "Office"
	Games              Category = "Games"
	Utility            Category = "Utility"
	Network            Category = "Network"
	Security           Category = "Security"
	OtherApplication   Category = "OtherApplication"
	Unknown            Category = "Unknown"
)

var all = []Category{
	Manual,
	DesktopEnvironment,
	System,
	Library,
	Development,
	Multimedia,
	Office,
	Games,
	Utility,
	Network,
	Security,
	OtherApplication,
	Unknown,
}

// All returns every category in declaration order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

func (c Category) String() string {
	return string(c)
}

// Parse maps a stored or user-supplied name back to a category.
// Matching ignores case; anything unrecognized is Unknown.
func Parse(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range all {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Unknown
}

// UnmarshalJSON decodes a category, mapping unknown values to Unknown.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Parse(s)
	return nil
}
