package install

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/superyngo/wenget/internal/hostenv"
)

// PlaceFiles copies the selected executables from extractDir into
// appDir (prefix/apps/{repo_name[::variant]}/), setting 0755 on UNIX, and
// returns the paths (relative to appDir) that were placed.
func PlaceFiles(extractDir, appDir string, selected []ScoredCandidate) ([]string, error) {
	if hostenv.IsNoExecMount(appDir) {
		log.Warn("install destination is on a noexec mount; placed binaries may refuse to run", "path", appDir)
	}

	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return nil, fmt.Errorf("create app directory %s: %w", appDir, err)
	}

	var placed []string
	for _, c := range selected {
		src := filepath.Join(extractDir, c.RelPath)
		relDest := filepath.Base(c.RelPath)
		dest := filepath.Join(appDir, relDest)

		if err := copyFile(src, dest); err != nil {
			return nil, fmt.Errorf("place %s: %w", c.RelPath, err)
		}
		if runtime.GOOS != "windows" {
			if err := os.Chmod(dest, 0o755); err != nil {
				return nil, fmt.Errorf("chmod %s: %w", dest, err)
			}
		}
		placed = append(placed, relDest)
	}
	return placed, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.ReadFrom(in)
	return err
}
