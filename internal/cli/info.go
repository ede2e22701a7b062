package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/resolver"
	"github.com/superyngo/wenget/internal/wgerr"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show metadata, available platforms, and install state for a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runInfo(a, cmd.OutOrStdout(), args[0])
		},
	}
	return cmd
}

func runInfo(a *app, stdout io.Writer, name string) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}

	cfg, err := a.loadBucketConfig()
	if err != nil {
		return err
	}
	cache, err := a.freshCache(cfg)
	if err != nil {
		return err
	}

	pkg, pkgOK := cache.FindPackageByName(name)
	script, scriptOK := cache.Scripts[name]
	if !pkgOK && !scriptOK {
		records := reg.ByRepoName(name)
		if len(records) == 0 {
			return wgerr.New(wgerr.NotFound, name)
		}
		if records[0].Source.Kind == model.SourceDirectRepo {
			return runInfoDirectRepo(a, stdout, name, records)
		}
		printInstalledOnly(stdout, name, records)
		return nil
	}

	if pkgOK {
		fmt.Fprintf(stdout, "%s\n", pkg.Name)
		if pkg.Description != "" {
			fmt.Fprintf(stdout, "  %s\n", pkg.Description)
		}
		if pkg.Homepage != "" {
			fmt.Fprintf(stdout, "  homepage: %s\n", pkg.Homepage)
		}
		if pkg.License != "" {
			fmt.Fprintf(stdout, "  license: %s\n", pkg.License)
		}
		fmt.Fprintf(stdout, "  source: bucket %s\n", pkg.Source.BucketName)
		fmt.Fprintf(stdout, "  platforms: %s\n", joinedPlatformKeys(pkg.Platforms))
	} else {
		fmt.Fprintf(stdout, "%s [script, %s]\n", script.Name, script.ScriptType)
		if script.Description != "" {
			fmt.Fprintf(stdout, "  %s\n", script.Description)
		}
		fmt.Fprintf(stdout, "  source: bucket %s\n", script.Source.BucketName)
	}

	records := reg.ByRepoName(name)
	if len(records) == 0 {
		fmt.Fprintln(stdout, "  not installed")
		return nil
	}
	for _, rec := range records {
		label := rec.RepoName
		if rec.Variant != "" {
			label = rec.Variant
		}
		fmt.Fprintf(stdout, "  installed: %s %s -> %s\n", label, displayVersion(rec.Version), rec.CommandName)
	}
	return nil
}

// runInfoDirectRepo handles a name absent from every bucket's cache but
// installed from a DirectRepo source: per SPEC_FULL.md's re-resolve rule
// (the same one checkDirectRepoUpdate in update.go follows), it re-fetches
// the recorded repo URL directly instead of falling back to the
// installed-only rendering.
func runInfoDirectRepo(a *app, stdout io.Writer, name string, records []model.InstalledRecord) error {
	primary := records[0]
	classify := resolver.Classify(primary.Source.URL, nil)
	if classify.Kind != resolver.KindDirectRepo {
		printInstalledOnly(stdout, name, records)
		return nil
	}

	release, err := a.github.FetchLatest(classify.Owner, classify.Repo)
	if err != nil {
		printInstalledOnly(stdout, name, records)
		return nil
	}

	fmt.Fprintf(stdout, "%s\n", name)
	fmt.Fprintf(stdout, "  source: %s/%s (direct repo)\n", classify.Owner, classify.Repo)
	fmt.Fprintf(stdout, "  latest: %s\n", release.TagName)
	for _, rec := range records {
		label := rec.RepoName
		if rec.Variant != "" {
			label = rec.Variant
		}
		fmt.Fprintf(stdout, "  installed: %s %s -> %s\n", label, displayVersion(rec.Version), rec.CommandName)
	}
	return nil
}

func printInstalledOnly(stdout io.Writer, name string, records []model.InstalledRecord) {
	fmt.Fprintf(stdout, "%s (not found in any configured bucket)\n", name)
	for _, rec := range records {
		label := rec.RepoName
		if rec.Variant != "" {
			label = rec.Variant
		}
		fmt.Fprintf(stdout, "  installed: %s %s -> %s\n", label, displayVersion(rec.Version), rec.CommandName)
	}
}

func joinedPlatformKeys(platforms map[string][]model.PlatformBinary) string {
	keys := make([]string, 0, len(platforms))
	for k := range platforms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}
