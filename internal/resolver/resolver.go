// Package resolver classifies an opaque command-line argument — an
// installed package name, a local file, a URL, a glob, or a bucket
// name — into the action the install/update/info commands should take.
package resolver

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

type Kind string

const (
	KindInstalled    Kind = "installed"
	KindLocalArchive Kind = "local_archive"
	KindLocalBinary  Kind = "local_binary"
	KindLocalScript  Kind = "local_script"
	KindDirectAsset  Kind = "direct_asset"
	KindDirectRepo   Kind = "direct_repo"
	KindGlob         Kind = "glob"
	KindBucketName   Kind = "bucket_name"
)

// Classification is the resolver's verdict for one input string.
type Classification struct {
	Kind         Kind
	Raw          string
	InstalledKey string
	LocalPath    string
	URL          string
	Owner        string
	Repo         string
	Pattern      string
}

// codeForgeHosts lists the hosts recognized as "owner/repo" release forges.
// Only GitHub is wired today; expanding this set is how a second forge
// would be supported without touching classification order.
var codeForgeHosts = map[string]bool{
	"github.com": true,
}

var archiveExtensions = map[string]bool{
	".zip": true, ".tar.gz": true, ".tgz": true, ".tar.xz": true,
	".txz": true, ".tar.bz2": true, ".tbz2": true, ".7z": true,
}

var scriptExtensions = map[string]bool{
	".ps1": true, ".sh": true, ".py": true, ".bat": true, ".cmd": true,
}

// InstalledKeyExists reports whether key names an installed package.
type InstalledKeyExists func(key string) bool

// Classify applies the five-step classification order: installed key,
// local path, URL, glob pattern, then bare bucket name.
func Classify(input string, installed InstalledKeyExists) Classification {
	raw := strings.TrimSpace(input)

	if installed != nil && installed(raw) {
		return Classification{Kind: KindInstalled, Raw: raw, InstalledKey: raw}
	}

	if info, err := os.Stat(raw); err == nil {
		abs, absErr := filepath.Abs(raw)
		if absErr != nil {
			abs = raw
		}
		return Classification{Kind: classifyLocalPath(abs, info), Raw: raw, LocalPath: abs}
	}

	if looksLikeURL(raw) {
		return classifyURL(raw)
	}

	if strings.ContainsAny(raw, "*?") {
		return Classification{Kind: KindGlob, Raw: raw, Pattern: raw}
	}

	return Classification{Kind: KindBucketName, Raw: raw}
}

func classifyLocalPath(absPath string, info os.FileInfo) Kind {
	lower := strings.ToLower(absPath)
	for ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return KindLocalArchive
		}
	}
	for ext := range scriptExtensions {
		if strings.HasSuffix(lower, ext) {
			return KindLocalScript
		}
	}
	if runtime.GOOS == "windows" {
		if strings.HasSuffix(lower, ".exe") {
			return KindLocalBinary
		}
	} else if info.Mode()&0o111 != 0 {
		return KindLocalBinary
	}
	return KindLocalBinary
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "github.com/")
}

func classifyURL(raw string) Classification {
	normalized := NormalizeGitHubURL(raw)

	if strings.Contains(normalized, "/releases/download/") {
		return Classification{Kind: KindDirectAsset, Raw: raw, URL: normalized}
	}

	if u, err := url.Parse(normalized); err == nil && codeForgeHosts[u.Host] {
		segments := nonEmptySegments(u.Path)
		if len(segments) == 2 {
			return Classification{Kind: KindDirectRepo, Raw: raw, URL: normalized, Owner: segments[0], Repo: segments[1]}
		}
	}

	return Classification{Kind: KindDirectAsset, Raw: raw, URL: normalized}
}

func nonEmptySegments(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// NormalizeGitHubURL upgrades http to https, adds a scheme to a bare
// "github.com/..." input, and strips trailing slashes and ".git".
func NormalizeGitHubURL(raw string) string {
	u := strings.TrimSpace(raw)
	if strings.HasPrefix(u, "http://github.com/") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}
	if strings.HasPrefix(u, "github.com/") {
		u = "https://" + u
	}
	u = strings.TrimRight(u, "/")
	u = strings.TrimSuffix(u, ".git")
	return u
}

// GlobMatch reports whether name matches pattern using shell-style '*' and
// '?' wildcards (path.Match's rules, applied to the whole string rather
// than path segments).
func GlobMatch(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// NormalizeTag strips a leading "v" so "v1.2.3" and "1.2.3" compare equal.
func NormalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "v")
}
