package bucket

import (
	"fmt"
	"testing"

	"github.com/superyngo/wenget/internal/model"
)

type fakeFetcher struct {
	byURL map[string]model.SourceManifest
	err   map[string]error
}

func (f fakeFetcher) Fetch(url string) (model.SourceManifest, error) {
	if err, ok := f.err[url]; ok {
		return model.SourceManifest{}, err
	}
	return f.byURL[url], nil
}

func TestBuildCacheFirstBucketWinsOnCollision(t *testing.T) {
	cfg := NewConfig()
	cfg.Add(Bucket{Name: "primary", URL: "https://a", Enabled: true, Priority: 200})
	cfg.Add(Bucket{Name: "secondary", URL: "https://b", Enabled: true, Priority: 100})

	fetcher := fakeFetcher{byURL: map[string]model.SourceManifest{
		"https://a": {Packages: []model.Package{{Name: "tool", Repo: "owner/tool-a", Description: "from primary"}}},
		"https://b": {Packages: []model.Package{{Name: "tool", Repo: "owner/tool-b", Description: "from secondary"}}},
	}}

	cache := BuildCache(cfg, fetcher)
	pkg, ok := cache.Packages["tool"]
	if !ok {
		t.Fatal("expected tool to be present in merged cache")
	}
	if pkg.Description != "from primary" {
		t.Fatalf("expected the first-added bucket to win, got description %q", pkg.Description)
	}
	if pkg.Source.BucketName != "primary" {
		t.Fatalf("expected source bucket 'primary', got %q", pkg.Source.BucketName)
	}
	if pkg.Repo != "owner/tool-a" {
		t.Fatalf("expected the merge to key on name, not repo: got repo %q", pkg.Repo)
	}
}

func TestBuildCacheSkipsFailingBucket(t *testing.T) {
	cfg := NewConfig()
	cfg.Add(Bucket{Name: "broken", URL: "https://broken", Enabled: true, Priority: 200})
	cfg.Add(Bucket{Name: "good", URL: "https://good", Enabled: true, Priority: 100})

	fetcher := fakeFetcher{
		byURL: map[string]model.SourceManifest{
			"https://good": {Packages: []model.Package{{Name: "tool", Repo: "owner/tool"}}},
		},
		err: map[string]error{"https://broken": fmt.Errorf("network down")},
	}

	cache := BuildCache(cfg, fetcher)
	if _, ok := cache.Packages["tool"]; !ok {
		t.Fatal("expected the good bucket's package to still be merged")
	}
	if _, ok := cache.Sources["bucket:broken"]; ok {
		t.Fatal("did not expect a source entry for a bucket that failed to fetch")
	}
}

func TestBuildCacheIgnoresDisabledBucket(t *testing.T) {
	cfg := NewConfig()
	cfg.Add(Bucket{Name: "off", URL: "https://off", Enabled: false, Priority: 100})

	fetcher := fakeFetcher{byURL: map[string]model.SourceManifest{
		"https://off": {Packages: []model.Package{{Name: "tool", Repo: "owner/tool"}}},
	}}

	cache := BuildCache(cfg, fetcher)
	if len(cache.Packages) != 0 {
		t.Fatalf("expected no packages from a disabled bucket, got %d", len(cache.Packages))
	}
}

func TestManifestCacheIsValidRespectsTTL(t *testing.T) {
	cache := NewManifestCache()
	if !cache.IsValid() {
		t.Fatal("expected a freshly built cache to be valid")
	}

	cache.TTLSeconds = -1
	if cache.IsValid() {
		t.Fatal("expected a negative TTL to make the cache invalid")
	}
}
