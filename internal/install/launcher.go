package install

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/superyngo/wenget/internal/wgerr"
)

// batchEscapeChars are the characters that disrupt the Windows batch
// interpreter when they appear unescaped inside a quoted path.
// "^" comes first so the carets added for the others are not escaped again.
var batchEscapeChars = []string{"^", "&", "|", "<", ">", "%", "!"}

// CreateLauncher installs the launcher for one placed executable: a symlink
// on UNIX, a ".cmd" wrapper on Windows. appDir is the placed executable's
// app directory; an existing launcher at launcherPath that doesn't point
// into it is a genuine command-name conflict (step 6, §4.4) and is rejected
// rather than silently overwritten — the registry's own dedup in
// UniqueCommandName only covers names it currently knows about, not a
// leftover launcher from a partial removal or an unrelated file.
func CreateLauncher(execPath, launcherPath, appDir string) error {
	if runtime.GOOS == "windows" {
		return createWindowsLauncher(execPath, launcherPath, appDir)
	}
	return createUnixSymlink(execPath, launcherPath, appDir)
}

func createUnixSymlink(target, link, appDir string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return fmt.Errorf("create launcher directory: %w", err)
	}
	if _, err := os.Lstat(link); err == nil {
		if !LinkPointsInto(link, appDir) {
			return wgerr.New(wgerr.ConflictingCommand, filepath.Base(link))
		}
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("remove existing launcher %s: %w", link, err)
		}
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("create symlink %s -> %s: %w", link, target, err)
	}
	return nil
}

func createWindowsLauncher(execPath, launcherPath, appDir string) error {
	if err := os.MkdirAll(filepath.Dir(launcherPath), 0o755); err != nil {
		return fmt.Errorf("create launcher directory: %w", err)
	}
	if _, err := os.Lstat(launcherPath); err == nil && !windowsLauncherPointsInto(launcherPath, appDir) {
		return wgerr.New(wgerr.ConflictingCommand, filepath.Base(launcherPath))
	}

	escaped := escapeBatchPath(execPath)
	content := "@echo off\r\n\"" + escaped + "\" %*\r\n"

	if err := os.WriteFile(launcherPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write launcher %s: %w", launcherPath, err)
	}
	return nil
}

// windowsLauncherPointsInto is LinkPointsInto's counterpart for the ".cmd"
// launchers Windows uses instead of symlinks: the wrapper embeds the
// target's absolute path verbatim (batch-escaped), so a simple containment
// check against appDir serves the same role os.Readlink does on UNIX.
func windowsLauncherPointsInto(launcherPath, appDir string) bool {
	data, err := os.ReadFile(launcherPath)
	if err != nil {
		return false
	}
	absAppDir, err := filepath.Abs(appDir)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), strings.ToLower(absAppDir))
}

// escapeBatchPath prefixes each batch-special character with a caret so an
// absolute path containing it doesn't break out of the quoted argument.
func escapeBatchPath(path string) string {
	escaped := path
	for _, ch := range batchEscapeChars {
		escaped = strings.ReplaceAll(escaped, ch, "^"+ch)
	}
	return escaped
}

// LinkPointsInto reports whether the UNIX symlink at linkPath resolves to a
// path inside appDir — used by the conflict rule to decide whether an
// existing launcher may be safely overwritten.
func LinkPointsInto(linkPath, appDir string) bool {
	target, err := os.Readlink(linkPath)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(linkPath), target)
	}
	absAppDir, err := filepath.Abs(appDir)
	if err != nil {
		return false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absAppDir, absTarget)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
