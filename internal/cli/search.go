package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search configured buckets for packages and scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runSearch(a, cmd.OutOrStdout(), args[0])
		},
	}
	return cmd
}

func runSearch(a *app, stdout io.Writer, query string) error {
	cfg, err := a.loadBucketConfig()
	if err != nil {
		return err
	}
	cache, err := a.freshCache(cfg)
	if err != nil {
		return err
	}

	type hit struct {
		name, kind, description, source string
	}
	var hits []hit

	lowerQuery := strings.ToLower(query)
	for _, pkg := range cache.Packages {
		if matchesQuery(lowerQuery, pkg.Name, pkg.Repo, pkg.Description) {
			hits = append(hits, hit{name: pkg.Name, kind: "package", description: pkg.Description, source: pkg.Source.BucketName})
		}
	}
	for name, s := range cache.Scripts {
		if matchesQuery(lowerQuery, name, s.Repo, s.Description) {
			hits = append(hits, hit{name: s.Name, kind: "script", description: s.Description, source: s.Source.BucketName})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].name < hits[j].name })

	if len(hits) == 0 {
		fmt.Fprintf(stdout, "no matches for %q\n", query)
		return nil
	}
	for _, h := range hits {
		if h.description != "" {
			fmt.Fprintf(stdout, "%s [%s] (%s) - %s\n", h.name, h.kind, h.source, h.description)
		} else {
			fmt.Fprintf(stdout, "%s [%s] (%s)\n", h.name, h.kind, h.source)
		}
	}
	return nil
}

func matchesQuery(lowerQuery string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}
