package install

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/superyngo/wenget/internal/model"
)

func TestDetectScriptType(t *testing.T) {
	cases := map[string]model.ScriptType{
		"deploy.ps1":  model.ScriptPowerShell,
		"install.bat": model.ScriptBatch,
		"RUN.CMD":     model.ScriptBatch,
		"setup.sh":    model.ScriptBash,
		"tool.py":     model.ScriptPython,
	}
	for name, want := range cases {
		got, ok := DetectScriptType(name)
		if !ok || got != want {
			t.Errorf("DetectScriptType(%q) = %q, %v; want %q, true", name, got, ok, want)
		}
	}
	if _, ok := DetectScriptType("README.md"); ok {
		t.Error("DetectScriptType(README.md) should not match a known interpreter")
	}
}

func TestWriteInterpreterLauncherUnixContent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("UNIX shebang launcher content only applies off Windows")
	}
	dir := t.TempDir()
	launcher := filepath.Join(dir, "bin", "tool")
	if err := writeInterpreterLauncher(launcher, "/usr/bin/python3", "/apps/tool/tool.py"); err != nil {
		t.Fatalf("writeInterpreterLauncher: %v", err)
	}
	data, err := os.ReadFile(launcher)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "#!/bin/sh\n") {
		t.Fatalf("expected shebang launcher, got %q", content)
	}
	if !strings.Contains(content, "/usr/bin/python3") || !strings.Contains(content, "/apps/tool/tool.py") {
		t.Fatalf("launcher missing interpreter or script path: %q", content)
	}
}

func TestInterpreterPathMemoizesPerKey(t *testing.T) {
	interpreterCacheMu.Lock()
	delete(interpreterCache, "test-interp-key")
	interpreterCacheMu.Unlock()

	_, ok1 := interpreterPath("test-interp-key", "definitely-not-a-real-binary-xyz")
	_, ok2 := interpreterPath("test-interp-key", "bash")
	if ok1 || ok2 {
		t.Fatal("expected lookup of a nonexistent binary to stay negative once cached")
	}

	interpreterCacheMu.Lock()
	delete(interpreterCache, "test-interp-key")
	interpreterCacheMu.Unlock()
}
