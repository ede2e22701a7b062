package install

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ExtractedFile is one file produced by extraction, relative to the
// destination directory.
type ExtractedFile struct {
	RelPath    string
	Executable bool
}

// Extract unpacks archivePath into destDir based on its extension. A file
// with no recognized archive extension is treated as an uncompressed
// binary and copied directly.
func Extract(archivePath, destDir string) ([]ExtractedFile, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create extraction directory %s: %w", destDir, err)
	}

	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz"):
		return extractTarGz(archivePath, destDir)
	case strings.HasSuffix(lower, ".tar.xz") || strings.HasSuffix(lower, ".txz"):
		return extractTarXz(archivePath, destDir)
	case strings.HasSuffix(lower, ".tar.bz2") || strings.HasSuffix(lower, ".tbz2"):
		return extractTarBz2(archivePath, destDir)
	case strings.HasSuffix(lower, ".zip"):
		return extractZip(archivePath, destDir)
	default:
		return extractStandaloneBinary(archivePath, destDir)
	}
}

func extractStandaloneBinary(archivePath, destDir string) ([]ExtractedFile, error) {
	name := filepath.Base(archivePath)
	destPath := filepath.Join(destDir, name)

	src, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", destPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("copy %s: %w", archivePath, err)
	}
	if err := os.Chmod(destPath, 0o755); err != nil {
		return nil, fmt.Errorf("chmod %s: %w", destPath, err)
	}

	return []ExtractedFile{{RelPath: name, Executable: true}}, nil
}

func extractTarGz(archivePath, destDir string) ([]ExtractedFile, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream for %s: %w", archivePath, err)
	}
	defer gz.Close()

	return extractTar(tar.NewReader(gz), destDir)
}

func extractTarXz(archivePath, destDir string) ([]ExtractedFile, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open xz stream for %s: %w", archivePath, err)
	}

	return extractTar(tar.NewReader(xzr), destDir)
}

func extractTarBz2(archivePath, destDir string) ([]ExtractedFile, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer f.Close()

	return extractTar(tar.NewReader(bzip2.NewReader(f)), destDir)
}

func extractTar(tr *tar.Reader, destDir string) ([]ExtractedFile, error) {
	var out []ExtractedFile
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read tar entry: %w", err)
		}
		if hdr.Typeflag == tar.TypeDir {
			continue
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		destPath, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return nil, fmt.Errorf("create directory for %s: %w", destPath, err)
		}

		executable := hdr.Mode&0o111 != 0
		mode := os.FileMode(0o644)
		if executable {
			mode = 0o755
		}
		if err := writeFile(destPath, tr, mode); err != nil {
			return nil, fmt.Errorf("extract %s: %w", hdr.Name, err)
		}

		out = append(out, ExtractedFile{RelPath: hdr.Name, Executable: executable})
	}
}

func extractZip(archivePath, destDir string) ([]ExtractedFile, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", archivePath, err)
	}
	defer zr.Close()

	var out []ExtractedFile
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		destPath, err := safeJoin(destDir, entry.Name)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return nil, fmt.Errorf("create directory for %s: %w", destPath, err)
		}

		r, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}

		executable := entry.Mode()&0o111 != 0
		mode := os.FileMode(0o644)
		if executable {
			mode = 0o755
		}
		writeErr := writeFile(destPath, r, mode)
		r.Close()
		if writeErr != nil {
			return nil, fmt.Errorf("extract %s: %w", entry.Name, writeErr)
		}

		out = append(out, ExtractedFile{RelPath: entry.Name, Executable: executable})
	}
	return out, nil
}

func writeFile(destPath string, r io.Reader, mode os.FileMode) error {
	dst, err := os.OpenFile(destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, r)
	return err
}

// safeJoin prevents zip-slip / tar-slip path traversal: the resolved path
// must remain inside destDir.
func safeJoin(destDir, name string) (string, error) {
	joined := filepath.Join(destDir, name)
	cleanDest := filepath.Clean(destDir) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(joined)+string(os.PathSeparator), cleanDest) && filepath.Clean(joined) != filepath.Clean(destDir) {
		return "", fmt.Errorf("archive entry %q escapes extraction directory", name)
	}
	return joined, nil
}
