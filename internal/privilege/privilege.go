// Package privilege detects whether the current process runs elevated
// (root on UNIX, Administrator on Windows), memoized for the process
// lifetime since elevation cannot change mid-run.
package privilege

import "sync"

var (
	once      sync.Once
	isElevate bool
)

// IsElevated reports whether the current process has elevation.
func IsElevated() bool {
	once.Do(func() {
		isElevate = detectElevated()
	})
	return isElevate
}
