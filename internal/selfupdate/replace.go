package selfupdate

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Replace installs newBinaryPath in place of the currently running
// executable (resolved via ComputeTargetPath), following the atomic
// self-replace protocol for the host platform. On UNIX it returns once
// the rename has completed; the calling process keeps running on its
// old inode. On Windows it spawns a detached cleanup helper and returns
// before that helper runs, since the running exe cannot delete itself.
func Replace(newBinaryPath, targetDir string) error {
	target, err := ComputeTargetPath(targetDir)
	if err != nil {
		return fmt.Errorf("resolve current executable: %w", err)
	}
	if runtime.GOOS == "windows" {
		return replaceWindows(newBinaryPath, target)
	}
	return replaceUnix(newBinaryPath, target)
}

// replaceUnix renames newBinaryPath onto target. A same-filesystem rename
// is atomic; EXDEV (cross-filesystem) falls back to copy-then-rename
// through a sibling temp file so a crash mid-copy never leaves target
// partially written.
func replaceUnix(newBinaryPath, target string) error {
	if err := os.Chmod(newBinaryPath, 0o755); err != nil {
		return fmt.Errorf("set executable permissions on %s: %w", newBinaryPath, err)
	}

	if err := os.Rename(newBinaryPath, target); err == nil {
		return nil
	}

	sibling, err := copyToSibling(newBinaryPath, target)
	if err != nil {
		return fmt.Errorf("copy new binary across filesystems: %w", err)
	}
	if err := os.Rename(sibling, target); err != nil {
		os.Remove(sibling)
		return fmt.Errorf("rename new binary into place: %w", err)
	}
	return nil
}

func copyToSibling(srcPath, target string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".new-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if err := os.Chmod(tmpPath, 0o755); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

// replaceWindows renames the running exe aside to "<name>.old" (Windows
// permits renaming a running executable, just not deleting it), moves the
// new binary into place, then spawns a detached batch script that waits a
// moment for this process to exit and deletes the ".old" file.
func replaceWindows(newBinaryPath, target string) error {
	oldPath := target + ".old"
	os.Remove(oldPath) // leftover from a prior update; ignore absence

	if err := os.Rename(target, oldPath); err != nil {
		return fmt.Errorf("move running executable aside: %w", err)
	}
	if err := os.Rename(newBinaryPath, target); err != nil {
		os.Rename(oldPath, target) // best-effort restore
		return fmt.Errorf("move new executable into place: %w", err)
	}

	script, err := writeCleanupScript(oldPath)
	if err != nil {
		return fmt.Errorf("write cleanup script: %w", err)
	}

	cmd := exec.Command("cmd.exe", "/C", script)
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn cleanup script: %w", err)
	}
	return nil
}

func writeCleanupScript(oldPath string) (string, error) {
	f, err := os.CreateTemp("", "wenget-cleanup-*.bat")
	if err != nil {
		return "", err
	}
	defer f.Close()

	content := fmt.Sprintf("@echo off\r\nping 127.0.0.1 -n 2 > nul\r\ndel /F /Q \"%s\"\r\ndel /F /Q \"%%~f0\"\r\n", oldPath)
	if _, err := f.WriteString(content); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
