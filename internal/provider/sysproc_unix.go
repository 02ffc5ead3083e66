//go:build !windows

package provider

import "syscall"

// newSysProcAttr returns SysProcAttr that creates a new session to detach
// from the controlling TTY, suppressing interactive UI hints from
// provider CLIs.
func newSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid: true,
	}
}
