// Package repair loads and saves the persisted JSON documents wenget keeps
// in its prefix (installed registry, bucket config, manifest cache,
// preferences), recovering from corruption instead of crashing.
package repair

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Severity mirrors how much the user should worry about a repair.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// Load reads path and decodes it as T. A missing file returns the zero
// value of T with no error. A parse error copies the corrupt contents to
// "<name>.backup.<unix-timestamp>", logs a warning at the given severity,
// and returns the zero value — it never returns a JSON error to the caller.
func Load[T any](path string, severity Severity, hint string) (T, error) {
	var empty T

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return empty, fmt.Errorf("read %s: %w", path, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		backupPath, backupErr := createBackup(path, data)
		logParseFailure(path, err, backupPath, backupErr, severity, hint)
		return empty, nil
	}

	return value, nil
}

// Save writes value to path as pretty-printed JSON via a temp-file-then-rename
// so concurrent readers never observe a partially written file.
func Save[T any](path string, value T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s into place: %w", path, err)
	}
	return nil
}

func createBackup(path string, corrupt []byte) (string, error) {
	backupPath := fmt.Sprintf("%s.backup.%d", path, time.Now().Unix())
	if err := os.WriteFile(backupPath, corrupt, 0o644); err != nil {
		return "", err
	}
	return backupPath, nil
}

func logParseFailure(path string, parseErr error, backupPath string, backupErr error, severity Severity, hint string) {
	fields := []any{"path", path, "error", parseErr}
	if backupErr == nil && backupPath != "" {
		fields = append(fields, "backup", backupPath)
	}
	if hint != "" {
		fields = append(fields, "hint", hint)
	}

	switch severity {
	case SeverityCritical:
		log.Error("repaired corrupted state file", fields...)
	case SeverityWarning:
		log.Warn("repaired corrupted state file", fields...)
	default:
		log.Info("repaired corrupted state file", fields...)
	}
}
