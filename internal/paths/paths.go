// Package paths lays out wenget's on-disk prefix: apps/, bin/, cache/, and
// the persisted state JSONs, at either user or system scope.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Scope selects where the prefix lives.
type Scope string

const (
	ScopeUser   Scope = "user"
	ScopeSystem Scope = "system"
)

// Paths resolves every file and directory wenget reads or writes.
type Paths struct {
	root  string
	scope Scope
}

// NewUser returns the user-scope prefix: $HOME/.wenget on UNIX,
// %USERPROFILE%\.wenget on Windows, or override verbatim when non-empty.
// Callers resolve override themselves (viper-bound --home/WENGET_HOME in
// the cli package); paths stays free of that dependency.
func NewUser(override string) (*Paths, error) {
	if override != "" {
		return &Paths{root: override, scope: ScopeUser}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determine home directory: %w", err)
	}
	return &Paths{root: filepath.Join(home, ".wenget"), scope: ScopeUser}, nil
}

// NewSystem returns the elevated system-scope prefix: /opt/wenget on
// Linux/macOS, %ProgramW6432%\wenget on Windows.
func NewSystem() (*Paths, error) {
	var root string
	if runtime.GOOS == "windows" {
		base := os.Getenv("ProgramW6432")
		if base == "" {
			base = os.Getenv("ProgramFiles")
		}
		if base == "" {
			return nil, fmt.Errorf("determine system program directory: ProgramW6432 and ProgramFiles unset")
		}
		root = filepath.Join(base, "wenget")
	} else {
		root = "/opt/wenget"
	}
	return &Paths{root: root, scope: ScopeSystem}, nil
}

// New returns the prefix for the requested scope. override, when non-empty,
// replaces the user-scope default root; it has no effect on system scope.
func New(scope Scope, override string) (*Paths, error) {
	if scope == ScopeSystem {
		return NewSystem()
	}
	return NewUser(override)
}

func (p *Paths) Scope() Scope { return p.scope }
func (p *Paths) Root() string { return p.root }

func (p *Paths) BucketsJSON() string       { return filepath.Join(p.root, "buckets.json") }
func (p *Paths) InstalledJSON() string     { return filepath.Join(p.root, "installed.json") }
func (p *Paths) PreferencesJSON() string   { return filepath.Join(p.root, "preferences.json") }
func (p *Paths) CacheDir() string          { return filepath.Join(p.root, "cache") }
func (p *Paths) ManifestCacheJSON() string { return filepath.Join(p.CacheDir(), "manifest-cache.json") }
func (p *Paths) DownloadsDir() string      { return filepath.Join(p.CacheDir(), "downloads") }
func (p *Paths) AppsDir() string           { return filepath.Join(p.root, "apps") }
func (p *Paths) AppDir(key string) string  { return filepath.Join(p.AppsDir(), key) }

// BinDir is the launcher directory added to PATH. On system scope on
// UNIX it is symlinked into /usr/local/bin rather than used directly.
func (p *Paths) BinDir() string {
	if p.scope == ScopeSystem && runtime.GOOS != "windows" {
		return "/usr/local/bin"
	}
	return filepath.Join(p.root, "bin")
}

// BinShimPath returns the launcher path for a command name: a bare file on
// UNIX (symlink target), "<name>.cmd" on Windows.
func (p *Paths) BinShimPath(name string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(p.BinDir(), name+".cmd")
	}
	return filepath.Join(p.BinDir(), name)
}

// ExecutableName appends the platform executable extension.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// IsInitialized reports whether the prefix root exists.
func (p *Paths) IsInitialized() bool {
	_, err := os.Stat(p.root)
	return err == nil
}

// InitDirs creates every directory the prefix needs.
func (p *Paths) InitDirs() error {
	for _, dir := range []string{p.root, p.AppsDir(), p.BinDir(), p.DownloadsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
