//go:build !windows

package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// rcFiles lists the shell startup files wenget appends its PATH export to,
// in the order checked. All existing ones that don't already contain the
// export are updated; init creates ~/.profile if none exist.
func rcFiles(home string) []string {
	return []string{
		filepath.Join(home, ".bashrc"),
		filepath.Join(home, ".zshrc"),
		filepath.Join(home, ".profile"),
		filepath.Join(home, ".config", "fish", "config.fish"),
	}
}

// EnsureSystemPathIntegration is a no-op on UNIX: system scope's BinDir is
// /usr/local/bin, already on PATH by default on every UNIX wenget supports.
func EnsureSystemPathIntegration(binDir string) error {
	return nil
}

// EnsurePathIntegration appends a PATH export for binDir to every shell rc
// file that exists and doesn't already reference it.
func EnsurePathIntegration(binDir string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("determine home directory: %w", err)
	}

	updated := false
	for _, rc := range rcFiles(home) {
		if _, err := os.Stat(rc); err != nil {
			continue
		}
		if err := appendPathExportIfMissing(rc, binDir); err != nil {
			return err
		}
		updated = true
	}

	if !updated {
		fallback := filepath.Join(home, ".profile")
		if err := appendPathExportIfMissing(fallback, binDir); err != nil {
			return err
		}
	}
	return nil
}

func appendPathExportIfMissing(rcPath, binDir string) error {
	line := pathExportLine(rcPath, binDir)

	existing, err := os.ReadFile(rcPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", rcPath, err)
	}
	if strings.Contains(string(existing), binDir) {
		return nil
	}

	f, err := os.OpenFile(rcPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", rcPath, err)
	}
	defer f.Close()

	if _, err := f.WriteString("\n" + line + "\n"); err != nil {
		return fmt.Errorf("append to %s: %w", rcPath, err)
	}
	return nil
}

func pathExportLine(rcPath, binDir string) string {
	if strings.HasSuffix(rcPath, "config.fish") {
		return fmt.Sprintf("set -gx PATH %q $PATH", binDir)
	}
	return fmt.Sprintf(`export PATH="%s:$PATH"`, binDir)
}
