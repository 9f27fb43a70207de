package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/glorpus-work/nebula/pkg/category"
	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/spf13/cobra"
)

type listOptions struct {
	all        bool
	refresh    bool
	versions   bool
	filter     string
	categories []string
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long: `List the packages you installed explicitly, with their category and the
installed packages they depend on. Results are cached; use --refresh to rebuild
the cache from dnf.

Use --all to list the base name of every installed package instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "List every installed package, not only user-installed ones")
	cmd.Flags().BoolVarP(&opts.refresh, "refresh", "r", false, "Ignore the cache and query dnf again")
	cmd.Flags().BoolVar(&opts.versions, "versions", false, "Show the newest installed version (with --all)")
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "Fuzzy filter on package names")
	cmd.Flags().StringSliceVarP(&opts.categories, "category", "c", nil,
		"Only show packages in these categories ("+strings.Join(categoryNames(), ", ")+")")

	return cmd
}

func runList(ctx context.Context, opts listOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, progressHooks(cfg))
	if err != nil {
		return err
	}

	if opts.all {
		if len(opts.categories) > 0 {
			return fmt.Errorf("--category cannot be combined with --all")
		}
		return listAll(ctx, a, opts)
	}

	cats, err := parseCategories(opts.categories)
	if err != nil {
		return err
	}

	pkgs, err := a.service.ListUserPackages(ctx, opts.refresh)
	if err != nil {
		return err
	}
	pkgs = model.FilterByCategory(pkgs, cats...)
	pkgs = fuzzyFilterPackages(opts.filter, pkgs)

	if ok, err := writeStructured(cfg.Settings.OutputFormat, pkgs); ok {
		return err
	}

	if len(pkgs) == 0 {
		_, _ = fmt.Fprintln(stdout, "No packages found")
		return nil
	}
	rows := make([][]string, 0, len(pkgs))
	for _, p := range pkgs {
		rows = append(rows, []string{p.Name, p.Category.String(), formatDependencies(p.Dependencies)})
	}
	_, _ = fmt.Fprintln(stdout, renderTable([]string{"PACKAGE", "CATEGORY", "DEPENDENCIES"}, rows))
	return nil
}

func listAll(ctx context.Context, a *app, opts listOptions) error {
	names, err := a.service.ListAllPackages(ctx)
	if err != nil {
		return err
	}
	names = fuzzyFilterNames(opts.filter, names)

	var versions map[string]string
	if opts.versions {
		if versions, err = a.service.ListInstalledVersions(ctx); err != nil {
			return err
		}
	}

	format := a.cfg.Settings.OutputFormat
	if format != formatTable {
		if versions == nil {
			_, err := writeStructured(format, names)
			return err
		}
		type entry struct {
			Name    string `json:"name" yaml:"name"`
			Version string `json:"version,omitempty" yaml:"version,omitempty"`
		}
		out := make([]entry, 0, len(names))
		for _, n := range names {
			out = append(out, entry{Name: n, Version: versions[n]})
		}
		_, err := writeStructured(format, out)
		return err
	}

	if len(names) == 0 {
		_, _ = fmt.Fprintln(stdout, "No packages installed")
		return nil
	}
	headers := []string{"PACKAGE"}
	if versions != nil {
		headers = append(headers, "VERSION")
	}
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		row := []string{n}
		if versions != nil {
			row = append(row, versions[n])
		}
		rows = append(rows, row)
	}
	_, _ = fmt.Fprintln(stdout, renderTable(headers, rows))
	_, _ = fmt.Fprintln(stdout, render(styleDim, strconv.Itoa(len(names))+" packages"))
	return nil
}

func parseCategories(raw []string) ([]category.Category, error) {
	out := make([]category.Category, 0, len(raw))
	for _, r := range raw {
		c := category.Parse(r)
		if c == category.Unknown && !strings.EqualFold(strings.TrimSpace(r), string(category.Unknown)) {
			return nil, fmt.Errorf("unknown category %q (use one of %s)", r, strings.Join(categoryNames(), ", "))
		}
		out = append(out, c)
	}
	return out, nil
}

func categoryNames() []string {
	all := category.All()
	out := make([]string, 0, len(all))
	for _, c := range all {
		out = append(out, c.String())
	}
	return out
}

func formatDependencies(deps []string) string {
	if len(deps) == 0 {
		return "-"
	}
	if len(deps) <= MaxDependenciesShown {
		return strings.Join(deps, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(deps[:MaxDependenciesShown], ", "), len(deps)-MaxDependenciesShown)
}
