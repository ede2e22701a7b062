package selfupdate

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestReplaceUnixSameFilesystemRename(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("UNIX rename protocol only applies off Windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "wenget")
	if err := os.WriteFile(target, []byte("old"), 0o755); err != nil {
		t.Fatal(err)
	}
	newBinary := filepath.Join(dir, "wenget.new")
	if err := os.WriteFile(newBinary, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := replaceUnix(newBinary, target); err != nil {
		t.Fatalf("replaceUnix: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Fatalf("target content = %q, want %q", data, "new")
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatal("expected replaced binary to carry the executable bit")
	}
	if _, err := os.Stat(newBinary); !os.IsNotExist(err) {
		t.Fatal("expected source to be consumed by rename")
	}
}

func TestCopyToSiblingPreservesContentAndPermissions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "wenget")

	sibling, err := copyToSibling(src, target)
	if err != nil {
		t.Fatalf("copyToSibling: %v", err)
	}
	defer os.Remove(sibling)

	data, err := os.ReadFile(sibling)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("sibling content = %q, want %q", data, "payload")
	}
	if filepath.Dir(sibling) != filepath.Dir(target) {
		t.Fatalf("sibling %q not created next to target %q", sibling, target)
	}
}

func TestWriteCleanupScriptDeletesOldAndSelf(t *testing.T) {
	script, err := writeCleanupScript(`C:\wenget\wenget.exe.old`)
	if err != nil {
		t.Fatalf("writeCleanupScript: %v", err)
	}
	defer os.Remove(script)

	data, err := os.ReadFile(script)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, `wenget.exe.old`) {
		t.Fatalf("cleanup script missing target path: %q", content)
	}
	if !strings.Contains(content, `del /F /Q "%~f0"`) {
		t.Fatalf("cleanup script should delete itself: %q", content)
	}
}

func TestWaitAndRemoveScriptPollsPidThenRemoves(t *testing.T) {
	script := waitAndRemoveScript(4242, "/home/me/.wenget/bin/wenget")
	if !strings.Contains(script, "kill -0 4242") {
		t.Fatalf("script should poll the given pid: %q", script)
	}
	if !strings.Contains(script, `rm -f "/home/me/.wenget/bin/wenget"`) {
		t.Fatalf("script should remove the target path: %q", script)
	}
}
