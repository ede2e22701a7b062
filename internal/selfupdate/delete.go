package selfupdate

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// SelfDelete removes wenget itself: the caller has already removed the
// launcher and the installed record. The running binary cannot unlink
// itself on Windows and unlinking it mid-read on UNIX is legal but leaves
// a half-removed feel if the process then crashes before exiting, so on
// both platforms the actual file removal is deferred to a short-lived
// detached helper that waits for this process to exit first.
func SelfDelete(exeDir string) error {
	target, err := ComputeTargetPath(exeDir)
	if err != nil {
		return fmt.Errorf("resolve current executable: %w", err)
	}
	pid := os.Getpid()

	if runtime.GOOS == "windows" {
		script, err := writeCleanupScript(target)
		if err != nil {
			return fmt.Errorf("write cleanup script: %w", err)
		}
		cmd := exec.Command("cmd.exe", "/C", script)
		cmd.SysProcAttr = detachedSysProcAttr()
		return cmd.Start()
	}

	cmd := exec.Command("/bin/sh", "-c", waitAndRemoveScript(pid, target))
	cmd.SysProcAttr = detachedSysProcAttr()
	return cmd.Start()
}

// waitAndRemoveScript polls for the parent pid to exit, then deletes its
// executable. Polling rather than waitpid because the helper is not the
// process's parent once detached.
func waitAndRemoveScript(pid int, target string) string {
	return fmt.Sprintf(
		`while kill -0 %d 2>/dev/null; do sleep 0.2; done; rm -f "%s"`,
		pid, target,
	)
}
