package install

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/superyngo/wenget/internal/model"
)

// DetectScriptType infers a script's interpreter from its filename extension.
func DetectScriptType(filename string) (model.ScriptType, bool) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".ps1"):
		return model.ScriptPowerShell, true
	case strings.HasSuffix(lower, ".bat"), strings.HasSuffix(lower, ".cmd"):
		return model.ScriptBatch, true
	case strings.HasSuffix(lower, ".sh"):
		return model.ScriptBash, true
	case strings.HasSuffix(lower, ".py"):
		return model.ScriptPython, true
	default:
		return "", false
	}
}

var (
	interpreterCache   = map[string]string{}
	interpreterCacheMu sync.Mutex
)

// interpreterPath runs each candidate in order and memoizes the first one
// found on PATH, process-wide: interpreter availability cannot change
// mid-run.
func interpreterPath(key string, candidates ...string) (string, bool) {
	interpreterCacheMu.Lock()
	defer interpreterCacheMu.Unlock()

	if path, ok := interpreterCache[key]; ok {
		return path, path != ""
	}
	for _, candidate := range candidates {
		if path, err := exec.LookPath(candidate); err == nil {
			interpreterCache[key] = path
			return path, true
		}
	}
	interpreterCache[key] = ""
	return "", false
}

// PowerShellCommand returns the best available PowerShell executable:
// pwsh (PowerShell Core) if present, otherwise the Windows-only
// "powershell", otherwise not found on UNIX without pwsh.
func PowerShellCommand() (string, bool) {
	if runtime.GOOS == "windows" {
		return interpreterPath("powershell", "pwsh", "powershell")
	}
	return interpreterPath("powershell", "pwsh")
}

func BashCommand() (string, bool) {
	return interpreterPath("bash", "bash")
}

func PythonCommand() (string, bool) {
	return interpreterPath("python", "python3", "python")
}

// InstallScript places scriptPath at appDir/<basename> and creates the
// launcher appropriate for its type. Returns the relative path placed.
func InstallScript(scriptPath, appDir, launcherPath string, scriptType model.ScriptType) (string, error) {
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", fmt.Errorf("create app directory %s: %w", appDir, err)
	}
	name := filepath.Base(scriptPath)
	dest := filepath.Join(appDir, name)
	if err := copyFile(scriptPath, dest); err != nil {
		return "", fmt.Errorf("place script %s: %w", scriptPath, err)
	}

	switch scriptType {
	case model.ScriptBash:
		if err := os.Chmod(dest, 0o755); err != nil {
			return "", fmt.Errorf("chmod %s: %w", dest, err)
		}
		if runtime.GOOS != "windows" {
			if err := createUnixSymlink(dest, launcherPath, appDir); err != nil {
				return "", err
			}
		} else if bash, ok := BashCommand(); ok {
			if err := writeInterpreterLauncher(launcherPath, bash, dest); err != nil {
				return "", err
			}
		} else {
			return "", fmt.Errorf("no bash interpreter found on PATH to launch %s", name)
		}
	case model.ScriptPowerShell:
		pwsh, ok := PowerShellCommand()
		if !ok {
			return "", fmt.Errorf("no PowerShell interpreter found on PATH to launch %s", name)
		}
		if err := writePowerShellLauncher(launcherPath, pwsh, dest); err != nil {
			return "", err
		}
	case model.ScriptPython:
		python, ok := PythonCommand()
		if !ok {
			return "", fmt.Errorf("no python interpreter found on PATH to launch %s", name)
		}
		if err := writeInterpreterLauncher(launcherPath, python, dest); err != nil {
			return "", err
		}
	case model.ScriptBatch:
		if runtime.GOOS != "windows" {
			return "", fmt.Errorf("batch scripts are only runnable on Windows")
		}
		if err := copyFile(dest, launcherPath); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown script type %q", scriptType)
	}

	return name, nil
}

func writeInterpreterLauncher(launcherPath, interpreter, scriptPath string) error {
	if err := os.MkdirAll(filepath.Dir(launcherPath), 0o755); err != nil {
		return fmt.Errorf("create launcher directory: %w", err)
	}
	if runtime.GOOS == "windows" {
		content := fmt.Sprintf("@echo off\r\n\"%s\" \"%s\" %%*\r\n", escapeBatchPath(interpreter), escapeBatchPath(scriptPath))
		return os.WriteFile(launcherPath, []byte(content), 0o644)
	}
	content := fmt.Sprintf("#!/bin/sh\nexec \"%s\" \"%s\" \"$@\"\n", interpreter, scriptPath)
	return os.WriteFile(launcherPath, []byte(content), 0o755)
}

func writePowerShellLauncher(launcherPath, pwsh, scriptPath string) error {
	if err := os.MkdirAll(filepath.Dir(launcherPath), 0o755); err != nil {
		return fmt.Errorf("create launcher directory: %w", err)
	}
	if runtime.GOOS == "windows" {
		content := fmt.Sprintf("@echo off\r\n\"%s\" -ExecutionPolicy Bypass -File \"%s\" %%*\r\n", escapeBatchPath(pwsh), escapeBatchPath(scriptPath))
		return os.WriteFile(launcherPath, []byte(content), 0o644)
	}
	content := fmt.Sprintf("#!/bin/sh\nexec \"%s\" -ExecutionPolicy Bypass -File \"%s\" \"$@\"\n", pwsh, scriptPath)
	return os.WriteFile(launcherPath, []byte(content), 0o755)
}
