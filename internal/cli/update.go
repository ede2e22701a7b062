package cli

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/bucket"
	"github.com/superyngo/wenget/internal/install"
	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/platform"
	"github.com/superyngo/wenget/internal/registry"
	"github.com/superyngo/wenget/internal/resolver"
	"github.com/superyngo/wenget/internal/selfupdate"
	pkgupdate "github.com/superyngo/wenget/pkg/update"
)

// selfRepoOwner/selfRepoName name the release forge wenget checks for its
// own "update self" — the spec's §4.7 atomic self-replace target.
const (
	selfRepoOwner = "superyngo"
	selfRepoName  = "wenget"
)

// maxUpdateWorkers is §5's "min(4, N)" bounded worker pool for the
// parallel per-package release checks update runs.
const maxUpdateWorkers = 4

func newUpdateCmd() *cobra.Command {
	var ver string
	var force bool

	cmd := &cobra.Command{
		Use:   "update [name|all|self]...",
		Short: "Check for and install newer releases of installed packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runUpdate(a, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, ver, force)
		},
	}
	cmd.Flags().StringVar(&ver, "ver", "", "update to this release tag instead of latest (allows downgrade)")
	cmd.Flags().BoolVar(&force, "force", false, "reinstall even if already at the target version, or cross a major version")
	return cmd
}

func runUpdate(a *app, stdin io.Reader, stdout, stderr io.Writer, args []string, ver string, force bool) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}

	names, updateSelf := targetNames(reg, args)

	failures := 0
	if updateSelf {
		if err := updateSelfBinary(a, stdout, ver, force); err != nil {
			fmt.Fprintf(stderr, "update self: %v\n", err)
			failures++
		}
	}

	if len(names) > 0 {
		cfg, err := a.loadBucketConfig()
		if err != nil {
			return err
		}
		cache, err := a.freshCache(cfg)
		if err != nil {
			return err
		}
		host := platform.DetectHost()

		// Only the release check (one HTTP fetch per package) runs on the
		// worker pool; the actual download/extract/place/registry-mutate
		// sequence that follows runs serially here, since Outcome/Registry
		// are not safe for concurrent mutation (§5: the pool is for "parallel
		// HTTP fetches", not for the install step itself).
		checks := checkUpdatesConcurrently(a, reg, cache, host, names, ver)
		for _, res := range checks {
			if res.err != nil {
				fmt.Fprintf(stderr, "update %s: %v\n", res.name, res.err)
				failures++
				continue
			}
			if res.skipped {
				fmt.Fprintf(stdout, "update %s: %s\n", res.name, res.message)
				continue
			}
			outcome, err := install.Run(a.paths, reg, res.plan)
			if err != nil {
				fmt.Fprintf(stderr, "update %s: %v\n", res.name, err)
				failures++
				continue
			}
			if err := resolveOutcome(a, stdin, stdout, &reg, res.plan, outcome); err != nil {
				fmt.Fprintf(stderr, "update %s: %v\n", res.name, err)
				failures++
				continue
			}
			fmt.Fprintf(stdout, "update %s: %s\n", res.name, res.message)
		}
	}

	if err := a.saveRegistry(reg); err != nil {
		return &ExitError{Code: exitPartialFailure, Err: fmt.Errorf("persist installed registry: %w", err)}
	}
	if failures > 0 {
		return &ExitError{Code: exitPartialFailure, Err: fmt.Errorf("%d update(s) failed", failures)}
	}
	return nil
}

// targetNames resolves the bare "update", "update all", and "update self"
// forms against the registry, plus any explicitly named repo.
func targetNames(reg registry.Registry, args []string) (names []string, updateSelf bool) {
	wantAll := len(args) == 0
	for _, a := range args {
		if a == "all" {
			wantAll = true
			continue
		}
		if a == "self" {
			updateSelf = true
			continue
		}
		names = append(names, a)
	}
	if wantAll {
		seen := map[string]bool{}
		for _, rec := range reg.Packages {
			if !seen[rec.RepoName] {
				seen[rec.RepoName] = true
				names = append(names, rec.RepoName)
			}
		}
		updateSelf = true
	}
	sort.Strings(names)
	return names, updateSelf
}

type updateResult struct {
	name    string
	skipped bool
	message string
	plan    install.Plan
	err     error
}

// checkUpdatesConcurrently runs one release check per name across a bounded
// worker pool, per §5's "min(4, N)" rule for update's parallel fetches.
func checkUpdatesConcurrently(a *app, reg registry.Registry, cache bucket.ManifestCache, host platform.Host, names []string, ver string) []updateResult {
	results := make([]updateResult, len(names))
	workers := maxUpdateWorkers
	if workers > len(names) {
		workers = len(names)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = checkUpdate(a, reg, cache, host, names[i], ver)
			}
		}()
	}
	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func checkUpdate(a *app, reg registry.Registry, cache bucket.ManifestCache, host platform.Host, name, ver string) updateResult {
	records := reg.ByRepoName(name)
	if len(records) == 0 {
		return updateResult{name: name, err: fmt.Errorf("not installed")}
	}
	primary := records[0]

	switch primary.Source.Kind {
	case model.SourceDirectRepo:
		return checkDirectRepoUpdate(a, host, name, primary, ver)
	case model.SourceBucket:
		return checkBucketUpdate(host, cache, name, primary)
	default:
		return updateResult{name: name, skipped: true, message: "no release provider for this source; reinstall by hand if needed"}
	}
}

func checkDirectRepoUpdate(a *app, host platform.Host, name string, primary model.InstalledRecord, ver string) updateResult {
	classify := resolver.Classify(primary.Source.URL, nil)
	if classify.Kind != resolver.KindDirectRepo {
		return updateResult{name: name, err: fmt.Errorf("recorded source %q is not a repo URL", primary.Source.URL)}
	}

	tag := resolver.NormalizeTag(ver)
	var release model.Release
	var err error
	if tag != "" {
		release, err = a.github.FetchTag(classify.Owner, classify.Repo, tag)
	} else {
		release, err = a.github.FetchLatest(classify.Owner, classify.Repo)
	}
	if err != nil {
		return updateResult{name: name, err: err}
	}

	dec, msg, _ := pkgupdate.DecideSelfUpdate(name, primary.Version, release.TagName, ver != "", false)
	if dec == pkgupdate.DecisionSkip || dec == pkgupdate.DecisionRefuse {
		return updateResult{name: name, skipped: true, message: msg}
	}

	candidates := candidatesFromRelease(release, primary.Source)
	chosen, _, err := pickAsset(host, candidates)
	if err != nil {
		return updateResult{name: name, err: err}
	}

	plan := install.Plan{
		RepoName:    name,
		Version:     release.TagName,
		PlatformKey: install.PlatformKeyFor(host),
		AssetURL:    chosen.url,
		AssetName:   chosen.parsed.RawName,
		Source:      primary.Source,
		AutoYes:     a.yes,
	}
	return updateResult{name: name, message: msg, plan: plan}
}

func checkBucketUpdate(host platform.Host, cache bucket.ManifestCache, name string, primary model.InstalledRecord) updateResult {
	pkg, ok := cache.FindPackageByName(name)
	if !ok {
		return updateResult{name: name, skipped: true, message: "no longer listed in any enabled bucket"}
	}
	candidates := candidatesFromPackage(pkg.Package, pkg.Source)
	chosen, _, err := pickAsset(host, candidates)
	if err != nil {
		return updateResult{name: name, err: err}
	}
	if chosen.parsed.RawName == primary.AssetName {
		return updateResult{name: name, skipped: true, message: "already matches the current bucket asset"}
	}
	return updateResult{
		name:    name,
		skipped: true,
		message: "bucket packages carry no version number; run 'wenget add' again to force reinstall of the current asset",
	}
}

func updateSelfBinary(a *app, stdout io.Writer, ver string, force bool) error {
	tag := resolver.NormalizeTag(ver)
	var release model.Release
	var err error
	if tag != "" {
		release, err = a.github.FetchTag(selfRepoOwner, selfRepoName, tag)
	} else {
		release, err = a.github.FetchLatest(selfRepoOwner, selfRepoName)
	}
	if err != nil {
		return err
	}

	dec, msg, exitCode := pkgupdate.DecideSelfUpdate(selfRepoName, version, release.TagName, ver != "", force)
	fmt.Fprintf(stdout, "%s\n", msg)
	if dec == pkgupdate.DecisionSkip || dec == pkgupdate.DecisionRefuse {
		if exitCode != 0 {
			return &ExitError{Code: exitPartialFailure, Err: fmt.Errorf("%s", msg)}
		}
		return nil
	}

	source := model.PackageSource{Kind: model.SourceDirectRepo, URL: fmt.Sprintf("https://github.com/%s/%s", selfRepoOwner, selfRepoName)}
	candidates := candidatesFromRelease(release, source)
	host := platform.DetectHost()
	chosen, _, err := pickAsset(host, candidates)
	if err != nil {
		return err
	}

	downloadPath := a.paths.DownloadsDir() + "/" + chosen.parsed.RawName
	if err := install.Download(chosen.url, downloadPath, nil); err != nil {
		return fmt.Errorf("download %s: %w", chosen.parsed.RawName, err)
	}
	extractDir := a.paths.DownloadsDir() + "/self-update-extract"
	files, err := install.Extract(downloadPath, extractDir)
	if err != nil {
		return fmt.Errorf("extract %s: %w", chosen.parsed.RawName, err)
	}
	candidatesExec := install.ScoreExecutables(files, selfRepoName)
	if len(candidatesExec) == 0 {
		return fmt.Errorf("no wenget executable found in %s", chosen.parsed.RawName)
	}

	newBinary := extractDir + "/" + candidatesExec[0].RelPath
	log.Info("replacing running binary", "version", release.TagName)
	return replaceSelf(newBinary)
}

func replaceSelf(newBinary string) error {
	return selfReplaceFunc(newBinary, "")
}

// selfReplaceFunc is a package-level indirection over selfupdate.Replace,
// overridden in tests to avoid touching the real running executable.
var selfReplaceFunc = defaultSelfReplace

func defaultSelfReplace(newBinaryPath, targetDir string) error {
	return selfupdate.Replace(newBinaryPath, targetDir)
}
