package bucket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/superyngo/wenget/internal/bucket/schema"
	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/repair"
)

const (
	cacheFormatVersion = "1.0"
	defaultTTLSeconds  = 86400
)

// SourceInfo records where a cached entry came from and when it was fetched.
type SourceInfo struct {
	model.PackageSource
	PackageCount int       `json:"package_count"`
	LastFetched  time.Time `json:"last_fetched,omitempty"`
	URL          string    `json:"url,omitempty"`
}

// CachedPackage pairs a package with its owning source.
type CachedPackage struct {
	model.Package
	Source model.PackageSource `json:"source"`
}

// CachedScript pairs a script with its owning source.
type CachedScript struct {
	model.ScriptItem
	Source model.PackageSource `json:"source"`
}

// ManifestCache is the merged, TTL'd view built from every enabled bucket.
type ManifestCache struct {
	Version     string                    `json:"version"`
	LastUpdated time.Time                 `json:"last_updated"`
	TTLSeconds  int64                     `json:"ttl_seconds"`
	Sources     map[string]SourceInfo     `json:"sources"`
	Packages    map[string]CachedPackage  `json:"packages"` // keyed by name
	Scripts     map[string]CachedScript   `json:"scripts"`
}

func NewManifestCache() ManifestCache {
	return ManifestCache{
		Version:     cacheFormatVersion,
		LastUpdated: time.Now().UTC(),
		TTLSeconds:  defaultTTLSeconds,
		Sources:     map[string]SourceInfo{},
		Packages:    map[string]CachedPackage{},
		Scripts:     map[string]CachedScript{},
	}
}

func LoadCache(path string) (ManifestCache, error) {
	cache, err := repair.Load[ManifestCache](path, repair.SeverityInfo,
		"Cache will be rebuilt from buckets on next operation.")
	if err != nil {
		return ManifestCache{}, err
	}
	if cache.Packages == nil {
		return NewManifestCache(), nil
	}
	return cache, nil
}

func SaveCache(path string, cache ManifestCache) error {
	return repair.Save(path, cache)
}

// IsValid reports whether the cache is unexpired.
func (c ManifestCache) IsValid() bool {
	if c.Version == "" {
		return false
	}
	return time.Since(c.LastUpdated) < time.Duration(c.TTLSeconds)*time.Second
}

// Fetcher retrieves and parses the manifest document published at a
// bucket's URL.
type Fetcher interface {
	Fetch(url string) (model.SourceManifest, error)
}

// BuildCache re-fetches every enabled bucket (in insertion order) and
// merges their packages/scripts: the first bucket to define a given name
// owns it. Per-bucket fetch failures are logged and skipped, not fatal.
func BuildCache(cfg Config, fetcher Fetcher) ManifestCache {
	cache := NewManifestCache()

	for _, b := range cfg.EnabledInOrder() {
		manifest, err := fetcher.Fetch(b.URL)
		if err != nil {
			log.Warn("failed to fetch bucket", "bucket", b.Name, "url", b.URL, "error", err)
			continue
		}

		source := model.PackageSource{Kind: model.SourceBucket, BucketName: b.Name}
		added := 0
		for _, pkg := range manifest.Packages {
			if _, exists := cache.Packages[pkg.Name]; exists {
				continue // first bucket wins
			}
			cache.Packages[pkg.Name] = CachedPackage{Package: pkg, Source: source}
			added++
		}
		for _, s := range manifest.Scripts {
			if _, exists := cache.Scripts[s.Name]; exists {
				continue
			}
			cache.Scripts[s.Name] = CachedScript{ScriptItem: s, Source: source}
			added++
		}

		cache.Sources["bucket:"+b.Name] = SourceInfo{
			PackageSource: source,
			PackageCount:  added,
			LastFetched:   time.Now().UTC(),
			URL:           b.URL,
		}
	}

	return cache
}

// FetchAndParse validates raw manifest bytes against the manifest schema
// before unmarshaling into a SourceManifest. Buckets that fail validation
// are treated as a per-bucket fetch failure by the caller.
func FetchAndParse(raw []byte) (model.SourceManifest, error) {
	if err := schema.ValidateManifest(raw); err != nil {
		return model.SourceManifest{}, err
	}
	var manifest model.SourceManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return model.SourceManifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return manifest, nil
}

// FindPackageByName does an exact lookup of the cache's packages, which are
// keyed directly by name; glob expansion over Packages is handled separately
// by expandGlob in the cli package.
func (c ManifestCache) FindPackageByName(name string) (CachedPackage, bool) {
	pkg, ok := c.Packages[name]
	return pkg, ok
}
