//go:build !windows

package privilege

import "os"

func detectElevated() bool {
	return os.Geteuid() == 0
}
