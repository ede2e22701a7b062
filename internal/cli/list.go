package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/model"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed packages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runList(a, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runList(a *app, stdout io.Writer) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}

	if len(reg.Packages) == 0 {
		fmt.Fprintln(stdout, "no packages installed")
		return nil
	}

	names := map[string]bool{}
	for _, rec := range reg.Packages {
		names[rec.RepoName] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		group := reg.ByRepoName(name)
		printPackageGroup(stdout, group)
	}
	return nil
}

// printPackageGroup renders a package and its sibling variants (§4.5) as a
// base line followed by indented variant lines.
func printPackageGroup(stdout io.Writer, group []model.InstalledRecord) {
	for i, rec := range group {
		if i == 0 && rec.Variant == "" {
			fmt.Fprintf(stdout, "%s %s (%s)\n", rec.RepoName, displayVersion(rec.Version), rec.CommandName)
			continue
		}
		if i == 0 {
			fmt.Fprintf(stdout, "%s\n", rec.RepoName)
		}
		fmt.Fprintf(stdout, "  %s %s (%s)\n", rec.Variant, displayVersion(rec.Version), rec.CommandName)
	}
}

func displayVersion(v string) string {
	if v == "" {
		return "(unversioned)"
	}
	return v
}
