package hooks

// HookType represents the type of hooks.
type HookType string

// Supported hooks types.
const (
	PreUpdate     HookType = "pre-update"
	PostUpdate    HookType = "post-update"
	PreUninstall  HookType = "pre-uninstall"
	PostUninstall HookType = "post-uninstall"
)

// AllTypes lists every supported hook type.
var AllTypes = []HookType{PreUpdate, PostUpdate, PreUninstall, PostUninstall}

// Valid reports whether t is a supported hook type.
func (t HookType) Valid() bool {
	for _, v := range AllTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Hook represents a hooks script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
type HookContext struct {
	PackageName string
	Operation   string // update|uninstall
	Mode        string // uninstall mode, empty for updates
	DryRun      bool
	// Success and Output are only set for post hooks.
	Success bool
	Output  string
	Vars    map[string]interface{}
}
