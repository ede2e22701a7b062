// Package model holds the data types shared across wenget's subsystems:
// release metadaata fetched from a provider, bucket-authored manifest
// entries, and the installed-package registry record.
package model

import "time"

// Release is the subset of a GitHub release payload that wenget uses.
type Release struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a single file published under a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadUrl string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// PlatformBinary is one entry in a package's per-platform binary list.
// The list preserves every variant discovered for a platform (baseline vs
// desktop, musl vs glibc); order is the declaration order in the bucket.
type PlatformBinary struct {
	URL       string `json:"url"`
	Size      int64  `json:"size"`
	AssetName string `json:"asset_name"`
	Checksum  string `json:"checksum,omitempty"`
}

// Package is a bucket-authored entry describing one installable unit across
// platforms.
type Package struct {
	Name        string                      `json:"name"`
	Repo        string                      `json:"repo"`
	Description string                      `json:"description,omitempty"`
	Homepage    string                      `json:"homepage,omitempty"`
	License     string                      `json:"license,omitempty"`
	Platforms   map[string][]PlatformBinary `json:"platforms"`
}

// ScriptType enumerates the interpreters wenget knows how to launch.
type ScriptType string

const (
	ScriptPowerShell ScriptType = "powershell"
	ScriptBash       ScriptType = "bash"
	ScriptBatch      ScriptType = "batch"
	ScriptPython     ScriptType = "python"
)

// ScriptItem is a bucket-authored entry for a single script, with no
// platform key: the same file is used on every OS, launched through the
// interpreter named by ScriptType.
type ScriptItem struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	ScriptType  ScriptType `json:"script_type"`
	Repo        string     `json:"repo,omitempty"`
	Homepage    string     `json:"homepage,omitempty"`
	License     string     `json:"license,omitempty"`
}

// SourceManifest is the document a bucket publishes at its URL.
type SourceManifest struct {
	Packages []Package    `json:"packages"`
	Scripts  []ScriptItem `json:"scripts"`
}

// PackageSourceKind tags the origin of a resolved or installed package.
type PackageSourceKind string

const (
	SourceBucket      PackageSourceKind = "bucket"
	SourceDirectRepo  PackageSourceKind = "direct_repo"
	SourceLocalScript PackageSourceKind = "local_script"
	SourceDirectAsset PackageSourceKind = "direct_asset"
)

// PackageSource identifies where a package or installed record came from.
type PackageSource struct {
	Kind         PackageSourceKind `json:"kind"`
	BucketName   string            `json:"bucket_name,omitempty"`
	URL          string            `json:"url,omitempty"`
	OriginalPath string            `json:"original_path,omitempty"`
}

// InstalledRecord is one installed unit, keyed in the registry by RegistryKey.
type InstalledRecord struct {
	RepoName      string        `json:"repo_name"`
	Variant       string        `json:"variant,omitempty"`
	Version       string        `json:"version"`
	Platform      string        `json:"platform"`
	InstallPath   string        `json:"install_path"`
	CommandName   string        `json:"command_name"`
	Files         []string      `json:"files"`
	Source        PackageSource `json:"source"`
	AssetName     string        `json:"asset_name,omitempty"`
	ParentPackage string        `json:"parent_package,omitempty"`
	Description   string        `json:"description,omitempty"`
	ScriptType    ScriptType    `json:"script_type,omitempty"`
}

// RegistryKey returns the string an InstalledRecord is keyed by in the
// installed registry: repo_name, or repo_name::variant when a variant is set.
func (r InstalledRecord) RegistryKey() string {
	if r.Variant == "" {
		return r.RepoName
	}
	return r.RepoName + "::" + r.Variant
}

// Preferences holds small user defaults persisted across invocations.
type Preferences struct {
	DefaultYes   bool   `json:"default_yes"`
	DefaultScope string `json:"default_scope,omitempty"` // "user" | "system"
}
