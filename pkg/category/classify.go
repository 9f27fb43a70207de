package category

import "strings"

// Classify maps a raw RPM group string to a category. Rules are checked from
// most to least specific and the first match wins. It never fails.
func Classify(rawGroup string) Category {
	g := strings.ToLower(strings.TrimSpace(rawGroup))

	switch {
	case g == "", strings.Contains(g, "not installed"), strings.Contains(g, "no such file"):
		return Unknown
	case containsAny(g, "desktop environment", "desktops", "xfce", "kde", "gnome"):
		return DesktopEnvironment
	case strings.HasPrefix(g, "system environment/base"),
		strings.HasPrefix(g, "system environment/kernel"),
		g == "system environment":
		return System
	case strings.Contains(g, "games"):
		return Games
	case containsAny(g, "multimedia", "sound", "video"):
		return Multimedia
	case containsAny(g, "office", "productivity"):
		return Office
	case containsAny(g, "network", "web", "mail"):
		return Network
	case containsAny(g, "security", "firewall"):
		return Security
	case strings.HasPrefix(g, "applications/"):
		switch {
		case containsAny(g, "development", "debugging"):
			return Development
		case strings.Contains(g, "utilities"):
			return Utility
		default:
			return OtherApplication
		}
	case strings.HasPrefix(g, "development/"):
		return Development
	case strings.Contains(g, "libraries"), strings.HasSuffix(g, "lib"):
		return Library
	case !strings.HasPrefix(g, "system environment/"):
		// Unclassified groups outside system environment are assumed user-facing.
		return Manual
	default:
		return Unknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
