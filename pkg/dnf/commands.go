// Package dnf builds dnf and rpm command lines and runs the read-only queries
// the aggregator needs.
package dnf

import "github.com/glorpus-work/nebula/pkg/model"

// Default tool binaries.
const (
	DefaultDNF = "dnf"
	DefaultRPM = "rpm"
)

// Command is one program invocation.
type Command struct {
	Program    string
	Args       []string
	Privileged bool
}

// Commands builds the argument vectors for every dnf/rpm call.
type Commands struct {
	DNF string
	RPM string
}

// NewCommands returns templates for the given binaries, defaulting empty ones.
func NewCommands(dnfBinary, rpmBinary string) Commands {
	if dnfBinary == "" {
		dnfBinary = DefaultDNF
	}
	if rpmBinary == "" {
		rpmBinary = DefaultRPM
	}
	return Commands{DNF: dnfBinary, RPM: rpmBinary}
}

// Installed lists every installed package, newest build per name.
func (c Commands) Installed() Command {
	return Command{Program: c.DNF, Args: []string{"repoquery", "--installed", "--quiet", "--latest-limit=1"}}
}

// InstalledAll lists every installed build, including parallel kernels.
func (c Commands) InstalledAll() Command {
	return Command{Program: c.DNF, Args: []string{"repoquery", "--installed", "--quiet"}}
}

// UserInstalled lists packages the user installed explicitly.
func (c Commands) UserInstalled() Command {
	return Command{Program: c.DNF, Args: []string{"repoquery", "--userinstalled", "--quiet", "--latest-limit=1"}}
}

// Requires lists the installed providers of name's requirements.
func (c Commands) Requires(name string) Command {
	return Command{Program: c.DNF, Args: []string{"repoquery", "--installed", "--requires", "--resolve", "--quiet", name}}
}

// Deplist lists dependencies and their providers for several packages at once.
func (c Commands) Deplist(specs ...string) Command {
	args := append([]string{"deplist"}, specs...)
	return Command{Program: c.DNF, Args: args}
}

// Group reads the RPM group tag of an installed package.
func (c Commands) Group(name string) Command {
	return Command{Program: c.RPM, Args: []string{"-q", "--queryformat", "%{GROUP}", name}}
}

// Update upgrades one package without prompting.
func (c Commands) Update(name string) Command {
	return Command{Program: c.DNF, Args: []string{"update", "-y", name}, Privileged: true}
}

// Autoremove removes packages no longer required by anything.
func (c Commands) Autoremove() Command {
	return Command{Program: c.DNF, Args: []string{"autoremove", "-y"}, Privileged: true}
}

// Remove returns the removal command for mode.
func (c Commands) Remove(name string, mode model.UninstallMode) (Command, bool) {
	switch mode {
	case model.UninstallSafe:
		return Command{Program: c.DNF, Args: []string{"remove", "-y", name}, Privileged: true}, true
	case model.UninstallForce:
		return Command{Program: c.RPM, Args: []string{"-e", "--nodeps", name}, Privileged: true}, true
	case model.UninstallDryRunSafe:
		return Command{Program: c.DNF, Args: []string{"remove", "--assumeno", name}}, true
	case model.UninstallDryRunForce:
		return Command{Program: c.RPM, Args: []string{"-e", "--test", "--nodeps", name}}, true
	default:
		return Command{}, false
	}
}
