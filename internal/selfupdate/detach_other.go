//go:build !windows

package selfupdate

import "syscall"

func detachedSysProcAttr() *syscall.SysProcAttr {
	return nil
}
