package cli

import (
	"fmt"
	"path/filepath"

	"github.com/superyngo/wenget/internal/bucket"
	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/platform"
	"github.com/superyngo/wenget/internal/resolver"
)

// resolvedAsset is a single installable candidate, flattened from whatever
// shape it originated in (bucket package, direct repo release, raw URL) so
// FindBestMatch can be run uniformly over it.
type resolvedAsset struct {
	parsed   platform.ParsedAsset
	url      string
	size     int64
	source   model.PackageSource
	checksum string // advisory; "" when the origin didn't publish one
}

// candidatesFromPackage flattens every platform binary a bucket package
// declares into scorable descriptors. The manifest's platform keys are
// informative grouping only — matching runs on the asset filename exactly
// as it would for a raw GitHub release, per the platform matcher's design.
func candidatesFromPackage(pkg model.Package, source model.PackageSource) []resolvedAsset {
	var out []resolvedAsset
	for _, bins := range pkg.Platforms {
		for _, b := range bins {
			if platform.IsRejected(b.AssetName) {
				continue
			}
			out = append(out, resolvedAsset{
				parsed:   platform.Parse(b.AssetName),
				url:      b.URL,
				size:     b.Size,
				source:   source,
				checksum: b.Checksum,
			})
		}
	}
	return out
}

// candidatesFromRelease flattens a GitHub release's assets the same way.
func candidatesFromRelease(rel model.Release, source model.PackageSource) []resolvedAsset {
	var out []resolvedAsset
	for _, a := range rel.Assets {
		if platform.IsRejected(a.Name) {
			continue
		}
		out = append(out, resolvedAsset{
			parsed: platform.Parse(a.Name),
			url:    a.BrowserDownloadUrl,
			size:   a.Size,
			source: source,
		})
	}
	return out
}

// pickAsset runs the platform matcher over candidates and returns the
// winning one along with its fallback classification, so the caller can
// decide whether confirmation is required (CompatibleConfirm).
func pickAsset(host platform.Host, candidates []resolvedAsset) (resolvedAsset, platform.FallbackType, error) {
	descriptors := make([]platform.ParsedAsset, len(candidates))
	for i, c := range candidates {
		descriptors[i] = c.parsed
	}
	match, err := platform.FindBestMatch(host, descriptors)
	if err != nil {
		return resolvedAsset{}, "", err
	}
	for _, c := range candidates {
		if c.parsed.RawName == match.Asset.RawName {
			return c, match.Fallback, nil
		}
	}
	return resolvedAsset{}, "", fmt.Errorf("internal error: matched asset %q not found among candidates", match.Asset.RawName)
}

// resolvePackageByName looks an identifier up in the manifest cache by exact
// name, packages before scripts. It does no glob matching (expandGlob does
// that) and returns at most one package or one script.
func resolvePackageByName(cache bucket.ManifestCache, name string) ([]bucket.CachedPackage, []bucket.CachedScript) {
	if pkg, ok := cache.FindPackageByName(name); ok {
		return []bucket.CachedPackage{pkg}, nil
	}
	if s, ok := cache.Scripts[name]; ok {
		return nil, []bucket.CachedScript{s}
	}
	return nil, nil
}

// expandGlob returns every package/script name in the cache matching a
// glob pattern.
func expandGlob(cache bucket.ManifestCache, pattern string) []string {
	var names []string
	for _, pkg := range cache.Packages {
		if resolver.GlobMatch(pattern, pkg.Name) || resolver.GlobMatch(pattern, pkg.Repo) {
			names = append(names, pkg.Name)
		}
	}
	for name := range cache.Scripts {
		if resolver.GlobMatch(pattern, name) {
			names = append(names, name)
		}
	}
	return names
}

func assetNameFromURL(rawURL string) string {
	return filepath.Base(rawURL)
}
