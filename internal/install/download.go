package install

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// ProgressFunc is called after each chunk is written, with the running
// total and the expected size (0 if unknown).
type ProgressFunc func(written, total int64)

// Download streams url into destPath, retrying transient failures twice
// with exponential backoff (1s, 2s). progress, if non-nil, is invoked as
// bytes arrive.
func Download(url, destPath string, progress ProgressFunc) error {
	var lastErr error
	backoff := time.Second
	for attempt := 0; attempt <= 2; attempt++ {
		if attempt > 0 {
			log.Warn("retrying download", "url", url, "attempt", attempt, "error", lastErr)
			time.Sleep(backoff)
			backoff *= 2
		}
		if err := downloadOnce(url, destPath, progress); err != nil {
			lastErr = err
			if !isTransient(err) {
				return err
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("download %s after retries: %w", url, lastErr)
}

type transientError struct{ error }

func (transientError) transient() {}

func isTransient(err error) bool {
	type marker interface{ transient() }
	_, ok := err.(marker)
	return ok
}

func downloadOnce(url, destPath string, progress ProgressFunc) error {
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return transientError{fmt.Errorf("fetch %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return transientError{fmt.Errorf("status %d from %s", resp.StatusCode, url)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d from %s: %s", resp.StatusCode, url, string(body))
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer f.Close()

	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := f.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("write %s: %w", destPath, writeErr)
			}
			written += int64(n)
			if progress != nil {
				progress(written, resp.ContentLength)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return transientError{fmt.Errorf("read response body for %s: %w", url, readErr)}
		}
	}
}
