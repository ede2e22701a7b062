package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/bucket"
	"github.com/superyngo/wenget/internal/install"
	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/platform"
	"github.com/superyngo/wenget/internal/registry"
	"github.com/superyngo/wenget/internal/resolver"
	"github.com/superyngo/wenget/internal/wgerr"
)

func newAddCmd() *cobra.Command {
	var ver, platformOverride, nameOverride string

	cmd := &cobra.Command{
		Use:   "add <id>...",
		Short: "Install one or more packages, scripts, or local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runAdd(a, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, ver, platformOverride, nameOverride)
		},
	}

	cmd.Flags().StringVar(&ver, "ver", "", "install this release tag instead of latest")
	cmd.Flags().StringVar(&platformOverride, "platform", "", "force a platform key (e.g. linux-x86_64-musl) instead of autodetecting")
	cmd.Flags().StringVar(&nameOverride, "name", "", "command name to register instead of the discovered one")
	return cmd
}

func runAdd(a *app, stdin io.Reader, stdout, stderr io.Writer, items []string, ver, platformOverride, nameOverride string) error {
	cfg, err := a.loadBucketConfig()
	if err != nil {
		return err
	}
	cache, err := a.freshCache(cfg)
	if err != nil {
		return err
	}
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}

	host := platform.DetectHost()
	if platformOverride != "" {
		if os_, arch, compiler, perr := platform.ParsePlatformKey(platformOverride); perr == nil {
			host = platform.Host{OS: os_, Arch: arch, Compiler: compiler}
		} else {
			fmt.Fprintf(stderr, "add: invalid --platform %q: %v\n", platformOverride, perr)
			return &ExitError{Code: exitUsage, Err: perr}
		}
	}

	var expanded []string
	for _, item := range items {
		classify := resolver.Classify(item, reg.IsInstalled)
		if classify.Kind == resolver.KindGlob {
			matches := expandGlob(cache, classify.Pattern)
			if len(matches) == 0 {
				fmt.Fprintf(stderr, "add: %s: no match for glob in cache\n", item)
				continue
			}
			expanded = append(expanded, matches...)
			continue
		}
		expanded = append(expanded, item)
	}

	before := make(map[string]bool, len(reg.Packages))
	for key := range reg.Packages {
		before[key] = true
	}

	failures := 0
	for _, item := range expanded {
		if err := addOne(a, stdin, stdout, stderr, &reg, cache, host, item, ver, nameOverride, a.yes); err != nil {
			log.Error("add failed", "item", item, "error", err)
			fmt.Fprintf(stderr, "add %s: %v\n", item, err)
			failures++
			continue
		}
		fmt.Fprintf(stdout, "add %s: installed\n", item)
	}

	if err := a.saveRegistry(reg); err != nil {
		var placed []model.InstalledRecord
		for key, rec := range reg.Packages {
			if !before[key] {
				placed = append(placed, rec)
			}
		}
		if rbErr := install.Rollback(a.paths, placed); rbErr != nil {
			log.Error("rollback failed", "error", rbErr)
		}
		return &ExitError{Code: exitPartialFailure, Err: fmt.Errorf("persist installed registry: %w", err)}
	}

	if failures > 0 {
		return &ExitError{Code: exitPartialFailure, Err: fmt.Errorf("%d of %d items failed", failures, len(expanded))}
	}
	return nil
}

// addOne installs a single already-expanded item. The five sources §4.6
// distinguishes — local archive/binary/script, a direct asset or repo URL,
// or a bucket-cached package/script — each drive a different branch of the
// install pipeline, converging on finishDownloadInstall/finishLocalInstall
// and resolveOutcome for the common download-or-not / extract / discover /
// place / launcher tail.
func addOne(a *app, stdin io.Reader, stdout, stderr io.Writer, reg *registry.Registry, cache bucket.ManifestCache, host platform.Host, item, ver, nameOverride string, autoYes bool) error {
	classify := resolver.Classify(item, nil)

	switch classify.Kind {
	case resolver.KindLocalArchive, resolver.KindLocalBinary:
		return addLocalPath(a, stdin, stdout, reg, host, classify.LocalPath, nameOverride, autoYes)

	case resolver.KindLocalScript:
		return addLocalScript(a, reg, classify.LocalPath, nameOverride)

	case resolver.KindDirectAsset:
		return addDirectAsset(a, stdin, stdout, reg, host, classify.URL, nameOverride, autoYes)

	case resolver.KindDirectRepo:
		return addDirectRepo(a, stdin, stdout, reg, host, classify, ver, nameOverride, autoYes)

	default: // KindInstalled, KindBucketName: both resolve through the cache by name
		return addFromCache(a, stdin, stdout, reg, cache, host, item, nameOverride, autoYes)
	}
}

func addLocalPath(a *app, stdin io.Reader, stdout io.Writer, reg *registry.Registry, host platform.Host, path, nameOverride string, autoYes bool) error {
	repoName := normalizeRepoNameFromPath(path)
	plan := install.Plan{
		RepoName:            repoName,
		PlatformKey:         install.PlatformKeyFor(host),
		AssetName:           filepath.Base(path),
		Source:              model.PackageSource{Kind: model.SourceDirectAsset, OriginalPath: path},
		AutoYes:             autoYes,
		CommandNameOverride: nameOverride,
	}
	return finishLocalInstall(a, stdin, stdout, reg, path, plan)
}

func addLocalScript(a *app, reg *registry.Registry, path, nameOverride string) error {
	scriptType, ok := install.DetectScriptType(path)
	if !ok {
		return fmt.Errorf("%s: unrecognized script type", path)
	}
	repoName := normalizeRepoNameFromPath(path)
	plan := install.Plan{
		RepoName:            repoName,
		Source:              model.PackageSource{Kind: model.SourceLocalScript, OriginalPath: path},
		AssetName:           filepath.Base(path),
		CommandNameOverride: nameOverride,
	}
	outcome, err := install.RunScript(a.paths, *reg, path, plan, scriptType)
	if err != nil {
		return err
	}
	for _, rec := range outcome.Records {
		reg.Upsert(rec)
	}
	return nil
}

func addDirectAsset(a *app, stdin io.Reader, stdout io.Writer, reg *registry.Registry, host platform.Host, rawURL, nameOverride string, autoYes bool) error {
	assetName := assetNameFromURL(rawURL)
	parsed := platform.Parse(assetName)
	if platform.IsRejected(assetName) {
		return wgerr.New(wgerr.NoMatch, assetName)
	}
	score, fallback, ok := platform.Score(parsed, host)
	if !ok || score == 0 {
		return wgerr.New(wgerr.NoMatch, assetName)
	}
	if !confirmFallback(stdin, stdout, autoYes, fallback, assetName) {
		return fmt.Errorf("installation of %s declined: asset is not an exact match for this platform", assetName)
	}

	repoName := normalizeRepoNameFromPath(assetName)
	plan := install.Plan{
		RepoName:            repoName,
		PlatformKey:         install.PlatformKeyFor(host),
		AssetURL:            rawURL,
		AssetName:           assetName,
		Source:              model.PackageSource{Kind: model.SourceDirectAsset, URL: rawURL},
		AutoYes:             autoYes,
		CommandNameOverride: nameOverride,
	}
	return finishDownloadInstall(a, stdin, stdout, reg, plan)
}

func addDirectRepo(a *app, stdin io.Reader, stdout io.Writer, reg *registry.Registry, host platform.Host, classify resolver.Classification, ver, nameOverride string, autoYes bool) error {
	tag := resolver.NormalizeTag(ver)
	var release model.Release
	var err error
	if tag != "" {
		release, err = a.github.FetchTag(classify.Owner, classify.Repo, tag)
	} else {
		release, err = a.github.FetchLatest(classify.Owner, classify.Repo)
	}
	if err != nil {
		return err
	}

	source := model.PackageSource{Kind: model.SourceDirectRepo, URL: classify.URL}
	candidates := candidatesFromRelease(release, source)
	if len(candidates) == 0 {
		return wgerr.New(wgerr.NoMatch, classify.URL)
	}
	chosen, fallback, err := pickAsset(host, candidates)
	if err != nil {
		return wgerr.Wrap(wgerr.NoMatch, classify.URL, err)
	}
	if !confirmFallback(stdin, stdout, autoYes, fallback, chosen.parsed.RawName) {
		return fmt.Errorf("installation of %s declined: asset is not an exact match for this platform", chosen.parsed.RawName)
	}

	plan := install.Plan{
		RepoName:            classify.Repo,
		Version:             release.TagName,
		PlatformKey:         install.PlatformKeyFor(host),
		AssetURL:            chosen.url,
		AssetName:           chosen.parsed.RawName,
		Source:              source,
		AutoYes:             autoYes,
		CommandNameOverride: nameOverride,
	}
	return finishDownloadInstall(a, stdin, stdout, reg, plan)
}

func addFromCache(a *app, stdin io.Reader, stdout io.Writer, reg *registry.Registry, cache bucket.ManifestCache, host platform.Host, name, nameOverride string, autoYes bool) error {
	if pkg, ok := cache.FindPackageByName(name); ok {
		return addBucketPackage(a, stdin, stdout, reg, host, pkg, nameOverride, autoYes)
	}
	if script, ok := cache.Scripts[name]; ok {
		return addBucketScript(a, reg, script, nameOverride)
	}
	return wgerr.New(wgerr.NotFound, name)
}

func addBucketPackage(a *app, stdin io.Reader, stdout io.Writer, reg *registry.Registry, host platform.Host, pkg bucket.CachedPackage, nameOverride string, autoYes bool) error {
	candidates := candidatesFromPackage(pkg.Package, pkg.Source)
	if len(candidates) == 0 {
		return fmt.Errorf("package %q declares no platform binaries", pkg.Name)
	}
	chosen, fallback, err := pickAsset(host, candidates)
	if err != nil {
		return wgerr.Wrap(wgerr.NoMatch, pkg.Name, err)
	}
	if !confirmFallback(stdin, stdout, autoYes, fallback, chosen.parsed.RawName) {
		return fmt.Errorf("installation of %s declined: asset is not an exact match for this platform", pkg.Name)
	}

	plan := install.Plan{
		RepoName:            pkg.Name,
		PlatformKey:         install.PlatformKeyFor(host),
		AssetURL:            chosen.url,
		AssetName:           chosen.parsed.RawName,
		Source:              model.PackageSource{Kind: model.SourceBucket, BucketName: pkg.Source.BucketName},
		AutoYes:             autoYes,
		CommandNameOverride: nameOverride,
		Checksum:            chosen.checksum,
	}
	return finishDownloadInstall(a, stdin, stdout, reg, plan)
}

func addBucketScript(a *app, reg *registry.Registry, s bucket.CachedScript, nameOverride string) error {
	downloadPath := filepath.Join(a.paths.DownloadsDir(), filepath.Base(s.URL))
	if err := install.Download(s.URL, downloadPath, nil); err != nil {
		return fmt.Errorf("download script %s: %w", s.Name, err)
	}
	plan := install.Plan{
		RepoName:            s.Name,
		Source:              model.PackageSource{Kind: model.SourceBucket, BucketName: s.Source.BucketName},
		AssetName:           filepath.Base(s.URL),
		CommandNameOverride: nameOverride,
	}
	outcome, err := install.RunScript(a.paths, *reg, downloadPath, plan, s.ScriptType)
	if err != nil {
		return err
	}
	for _, rec := range outcome.Records {
		reg.Upsert(rec)
	}
	return nil
}

// finishDownloadInstall runs the download+extract+discover+place+launcher
// pipeline for a plan whose asset still needs fetching, resolving a
// NeedsSelection outcome via the interactive multi-select fallback before
// persisting records into reg. If the final registry write fails, runAdd
// rolls back the files of records that were new in this run (§7).
func finishDownloadInstall(a *app, stdin io.Reader, stdout io.Writer, reg *registry.Registry, plan install.Plan) error {
	outcome, err := install.Run(a.paths, *reg, plan)
	if err != nil {
		return err
	}
	return resolveOutcome(a, stdin, stdout, reg, plan, outcome)
}

// finishLocalInstall is finishDownloadInstall's counterpart for a source
// already on disk (local archive/binary), skipping the download step.
func finishLocalInstall(a *app, stdin io.Reader, stdout io.Writer, reg *registry.Registry, sourcePath string, plan install.Plan) error {
	outcome, err := install.RunLocal(a.paths, *reg, sourcePath, plan)
	if err != nil {
		return err
	}
	return resolveOutcome(a, stdin, stdout, reg, plan, outcome)
}

func resolveOutcome(a *app, stdin io.Reader, stdout io.Writer, reg *registry.Registry, plan install.Plan, outcome install.Outcome) error {
	if outcome.NeedsSelection {
		chosen := selectExecutables(stdin, stdout, outcome.Candidates)
		if len(chosen) == 0 {
			return fmt.Errorf("no executable selected for %s", plan.RepoName)
		}
		var err error
		outcome, err = install.PlaceSelected(a.paths, *reg, plan, chosen)
		if err != nil {
			return err
		}
	}
	for _, rec := range outcome.Records {
		reg.Upsert(rec)
	}
	return nil
}

// normalizeRepoNameFromPath derives a package name from a local path or
// asset filename: the basename with its last extension and any trailing
// "-vN" removed. Platform tokens and inner extensions (".tar" of ".tar.gz")
// are kept, and case is preserved.
func normalizeRepoNameFromPath(path string) string {
	return install.NormalizeCandidateName(filepath.Base(path))
}
