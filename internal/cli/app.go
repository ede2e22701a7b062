package cli

import (
	"errors"
	"fmt"

	"github.com/superyngo/wenget/internal/bucket"
	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/paths"
	"github.com/superyngo/wenget/internal/preferences"
	"github.com/superyngo/wenget/internal/provider/github"
	"github.com/superyngo/wenget/internal/registry"
	"github.com/superyngo/wenget/internal/wgerr"
)

// version is set via -ldflags by the release build; "dev" otherwise.
var version = "dev"

// ExitError signals a non-zero exit code from a RunE handler without
// calling os.Exit directly, so Execute can decide when process exit
// actually happens.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

const (
	exitOK             = 0
	exitPartialFailure = 1
	exitUsage          = 2
	exitPrerequisite   = 3
)

// exitCodeFor maps an error to §6's exit code table. Errors that are
// already an *ExitError keep their code; everything else is classified by
// wgerr kind where possible.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	if kind, ok := wgerr.KindOf(err); ok {
		switch kind {
		case wgerr.NotFound, wgerr.NoMatch:
			return exitPartialFailure
		}
	}
	return exitPartialFailure
}

// app bundles everything a command needs: resolved paths, the persisted
// state files (loaded lazily and saved explicitly by whichever command
// mutates them), and the release provider.
type app struct {
	scope paths.Scope
	yes   bool

	paths  *paths.Paths
	github *github.Provider
}

func newApp(scope paths.Scope, yes bool) (*app, error) {
	p, err := paths.New(scope, homeOverride())
	if err != nil {
		return nil, &ExitError{Code: exitPrerequisite, Err: fmt.Errorf("resolve prefix: %w", err)}
	}
	return &app{
		scope:  scope,
		yes:    yes,
		paths:  p,
		github: github.New(version, githubToken()),
	}, nil
}

func (a *app) loadBucketConfig() (bucket.Config, error) {
	cfg, err := bucket.Load(a.paths.BucketsJSON())
	if err != nil {
		return bucket.Config{}, fmt.Errorf("load bucket config: %w", err)
	}
	return cfg, nil
}

func (a *app) saveBucketConfig(cfg bucket.Config) error {
	return bucket.Save(a.paths.BucketsJSON(), cfg)
}

func (a *app) loadRegistry() (registry.Registry, error) {
	reg, err := registry.Load(a.paths.InstalledJSON())
	if err != nil {
		return registry.Registry{}, fmt.Errorf("load installed registry: %w", err)
	}
	return reg, nil
}

func (a *app) saveRegistry(reg registry.Registry) error {
	return registry.Save(a.paths.InstalledJSON(), reg)
}

func (a *app) loadPreferences() (model.Preferences, error) {
	prefs, err := preferences.Load(a.paths.PreferencesJSON())
	if err != nil {
		return model.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

func (a *app) savePreferences(prefs model.Preferences) error {
	return preferences.Save(a.paths.PreferencesJSON(), prefs)
}

// freshCache ensures the manifest cache is loaded and rebuilds it if
// missing, expired, or the bucket set no longer matches what it was built
// from, per §4.3's read-path rule.
func (a *app) freshCache(cfg bucket.Config) (bucket.ManifestCache, error) {
	cache, err := bucket.LoadCache(a.paths.ManifestCacheJSON())
	if err != nil {
		return bucket.ManifestCache{}, fmt.Errorf("load manifest cache: %w", err)
	}
	if cache.IsValid() && cacheMatchesBucketSet(cache, cfg) {
		return cache, nil
	}
	cache = bucket.BuildCache(cfg, bucket.NewHTTPFetcher())
	if err := bucket.SaveCache(a.paths.ManifestCacheJSON(), cache); err != nil {
		return bucket.ManifestCache{}, fmt.Errorf("save manifest cache: %w", err)
	}
	return cache, nil
}

// cacheMatchesBucketSet reports whether the cache's recorded sources line
// up with the currently enabled buckets — a changed bucket set invalidates
// the cache even within its TTL (I4).
func cacheMatchesBucketSet(cache bucket.ManifestCache, cfg bucket.Config) bool {
	enabled := cfg.EnabledInOrder()
	if len(cache.Sources) != len(enabled) {
		return false
	}
	for _, b := range enabled {
		if _, ok := cache.Sources["bucket:"+b.Name]; !ok {
			return false
		}
	}
	return true
}
