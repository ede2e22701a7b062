package install

import (
	"os"

	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/paths"
)

// Rollback removes the files and launchers an Outcome placed, used when a
// later step (e.g. StatePersist) fails after files were already written.
// Sibling records that share an install_path (the multi-executable case)
// only need that directory removed once.
func Rollback(p *paths.Paths, records []model.InstalledRecord) error {
	removedDirs := map[string]bool{}
	for _, rec := range records {
		if !removedDirs[rec.InstallPath] {
			if err := removeAll(rec.InstallPath); err != nil {
				return err
			}
			removedDirs[rec.InstallPath] = true
		}
		if err := removeFile(p.BinShimPath(rec.CommandName)); err != nil {
			return err
		}
	}
	return nil
}

func removeAll(path string) error {
	if path == "" {
		return nil
	}
	return os.RemoveAll(path)
}

func removeFile(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
