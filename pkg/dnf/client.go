package dnf

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/glorpus-work/nebula/pkg/deplist"
	"github.com/glorpus-work/nebula/pkg/errors"
	"github.com/glorpus-work/nebula/pkg/nevra"
	"github.com/glorpus-work/nebula/pkg/runner"
)

// Client runs read-only package queries.
type Client struct {
	runner   runner.Runner
	commands Commands
}

// NewClient creates a query client using r to run commands.
func NewClient(r runner.Runner, commands Commands) *Client {
	return &Client{runner: r, commands: commands}
}

// Commands returns the command templates used by the client.
func (c *Client) Commands() Commands {
	return c.commands
}

// Exec runs cmd and turns a non-zero exit into a KindNonZeroExit error.
func (c *Client) Exec(ctx context.Context, cmd Command) (*runner.Result, error) {
	line := runner.CommandLine(cmd.Program, cmd.Args...)
	res, err := c.runner.Run(ctx, cmd.Program, cmd.Args...)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return res, errors.New(errors.KindNonZeroExit, line, "exited with status "+strconv.Itoa(res.ExitCode)).
			WithOutput(string(res.Stderr))
	}
	return res, nil
}

// InstalledSpecs returns the raw NEVRA of every installed package.
func (c *Client) InstalledSpecs(ctx context.Context) ([]string, error) {
	return c.lines(ctx, c.commands.Installed())
}

// InstalledNames returns the sorted, unique base names of installed packages.
// An empty system yields an empty list, not an error.
func (c *Client) InstalledNames(ctx context.Context) ([]string, error) {
	specs, err := c.InstalledSpecs(ctx)
	if err != nil {
		return nil, err
	}
	return uniqueSorted(nevra.NormalizeAll(specs)), nil
}

// UserInstalledSpecs returns the raw specs of packages the user installed explicitly.
func (c *Client) UserInstalledSpecs(ctx context.Context) ([]string, error) {
	return c.lines(ctx, c.commands.UserInstalled())
}

// InstalledVersions maps each installed package name to its newest installed
// "[epoch:]version-release".
func (c *Client) InstalledVersions(ctx context.Context) (map[string]string, error) {
	specs, err := c.lines(ctx, c.commands.InstalledAll())
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		n, ok := nevra.Parse(spec)
		if !ok {
			continue
		}
		evr := n.EVR()
		if cur, seen := out[n.Name]; !seen || nevra.CompareVersions(evr, cur) > 0 {
			out[n.Name] = evr
		}
	}
	return out, nil
}

// Requires returns the raw output listing the providers of name's requirements.
func (c *Client) Requires(ctx context.Context, name string) (string, error) {
	res, err := c.Exec(ctx, c.commands.Requires(name))
	if err != nil {
		return "", err
	}
	return string(res.Stdout), nil
}

// Group returns the RPM group tag of name.
func (c *Client) Group(ctx context.Context, name string) (string, error) {
	res, err := c.Exec(ctx, c.commands.Group(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// Deplist resolves the dependencies of several packages with one dnf call.
func (c *Client) Deplist(ctx context.Context, specs []string) (map[string][]string, error) {
	if len(specs) == 0 {
		return map[string][]string{}, nil
	}
	res, err := c.Exec(ctx, c.commands.Deplist(specs...))
	if err != nil {
		return nil, err
	}
	return deplist.ParseMulti(string(res.Stdout)), nil
}

func (c *Client) lines(ctx context.Context, cmd Command) ([]string, error) {
	res, err := c.Exec(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || deplist.IsNoise(line) {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
