package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewUserRespectsWengetHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WENGET_HOME", dir)

	p, err := NewUser(os.Getenv("WENGET_HOME"))
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if p.Root() != dir {
		t.Fatalf("Root() = %q, want %q", p.Root(), dir)
	}
	if p.Scope() != ScopeUser {
		t.Fatalf("Scope() = %q, want %q", p.Scope(), ScopeUser)
	}
}

func TestNewUserDefaultsUnderHomeDir(t *testing.T) {
	t.Setenv("WENGET_HOME", "")

	p, err := NewUser(os.Getenv("WENGET_HOME"))
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, ".wenget")
	if p.Root() != want {
		t.Fatalf("Root() = %q, want %q", p.Root(), want)
	}
}

func TestInitDirsCreatesExpectedLayout(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WENGET_HOME", dir)

	p, err := NewUser(os.Getenv("WENGET_HOME"))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.InitDirs(); err != nil {
		t.Fatalf("InitDirs: %v", err)
	}
	for _, sub := range []string{"apps", "bin", filepath.Join("cache", "downloads")} {
		if info, err := os.Stat(filepath.Join(dir, sub)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist, err=%v", sub, err)
		}
	}
}
