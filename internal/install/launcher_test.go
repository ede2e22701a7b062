package install

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestEscapeBatchPathEscapesSpecialChars(t *testing.T) {
	in := `C:\Program Files (x86)\tool & co\tool.exe`
	out := escapeBatchPath(in)
	if !strings.Contains(out, "^&") {
		t.Fatalf("expected %q to contain an escaped ampersand, got %q", in, out)
	}
}

func TestCreateUnixSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink launcher is UNIX-only")
	}
	dir := t.TempDir()
	appDir := filepath.Join(dir, "app")
	target := filepath.Join(appDir, "tool")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(dir, "bin", "tool")
	if err := CreateLauncher(target, link, appDir); err != nil {
		t.Fatalf("CreateLauncher: %v", err)
	}

	resolved, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if resolved != target {
		t.Fatalf("symlink target = %q, want %q", resolved, target)
	}
}

func TestCreateLauncherRejectsConflictingExistingLauncher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink launcher is UNIX-only")
	}
	dir := t.TempDir()
	appDir := filepath.Join(dir, "apps", "tool")
	otherDir := filepath.Join(dir, "apps", "other")
	os.MkdirAll(appDir, 0o755)
	os.MkdirAll(otherDir, 0o755)

	otherTarget := filepath.Join(otherDir, "tool")
	os.WriteFile(otherTarget, []byte("x"), 0o755)
	link := filepath.Join(dir, "bin", "tool")
	os.MkdirAll(filepath.Dir(link), 0o755)
	if err := os.Symlink(otherTarget, link); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(appDir, "tool")
	os.WriteFile(target, []byte("y"), 0o755)
	if err := CreateLauncher(target, link, appDir); err == nil {
		t.Fatal("expected CreateLauncher to reject a launcher owned by a different app dir")
	}
}

func TestLinkPointsInto(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink launcher is UNIX-only")
	}
	dir := t.TempDir()
	appDir := filepath.Join(dir, "apps", "tool")
	otherDir := filepath.Join(dir, "apps", "other")
	os.MkdirAll(appDir, 0o755)
	os.MkdirAll(otherDir, 0o755)

	target := filepath.Join(appDir, "tool")
	os.WriteFile(target, []byte("x"), 0o755)
	link := filepath.Join(dir, "bin", "tool")
	os.MkdirAll(filepath.Dir(link), 0o755)
	os.Symlink(target, link)

	if !LinkPointsInto(link, appDir) {
		t.Fatal("expected link to be recognized as pointing into appDir")
	}
	if LinkPointsInto(link, otherDir) {
		t.Fatal("did not expect link to be recognized as pointing into otherDir")
	}
}
