//go:build windows

package install

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	hwndBroadcast    = 0xffff
	wmSettingChange  = 0x001A
	smtoAbortIfHung  = 0x0002
)

// EnsurePathIntegration prepends binDir to the user Path registry value
// (HKCU\Environment), then broadcasts WM_SETTINGCHANGE so newly spawned
// processes inherit it without a logoff/logon.
func EnsurePathIntegration(binDir string) error {
	return ensurePathIntegration(binDir, false)
}

// EnsureSystemPathIntegration adds binDir to the machine-wide Path value;
// callers must already hold elevation.
func EnsureSystemPathIntegration(binDir string) error {
	return ensurePathIntegration(binDir, true)
}

func ensurePathIntegration(binDir string, systemScope bool) error {
	root := registry.CURRENT_USER
	path := `Environment`
	if systemScope {
		root = registry.LOCAL_MACHINE
		path = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
	}

	key, err := registry.OpenKey(root, path, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open %s environment key: %w", path, err)
	}
	defer key.Close()

	existing, _, err := key.GetStringValue("Path")
	if err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("read Path value: %w", err)
	}

	if pathContains(existing, binDir) {
		return nil
	}

	updated := binDir
	if existing != "" {
		updated = binDir + ";" + existing
	}
	if err := key.SetExpandStringValue("Path", updated); err != nil {
		return fmt.Errorf("write Path value: %w", err)
	}

	broadcastEnvironmentChange()
	return nil
}

func pathContains(pathValue, dir string) bool {
	for _, entry := range strings.Split(pathValue, ";") {
		if strings.EqualFold(strings.TrimRight(entry, `\`), strings.TrimRight(dir, `\`)) {
			return true
		}
	}
	return false
}

func broadcastEnvironmentChange() {
	env, _ := windows.UTF16PtrFromString("Environment")
	user32 := windows.NewLazySystemDLL("user32.dll")
	proc := user32.NewProc("SendMessageTimeoutW")
	proc.Call(
		uintptr(hwndBroadcast),
		uintptr(wmSettingChange),
		0,
		uintptr(unsafe.Pointer(env)),
		uintptr(smtoAbortIfHung),
		uintptr(5000),
		0,
	)
}
