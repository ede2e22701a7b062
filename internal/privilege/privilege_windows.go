//go:build windows

package privilege

import "golang.org/x/sys/windows"

// detectElevated checks whether the process token carries the elevation bit,
// the same signal the "is_elevated" crate queries on the Rust side.
func detectElevated() bool {
	var token windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()
	return token.IsElevated()
}
