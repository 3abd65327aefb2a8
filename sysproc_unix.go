//go:build unix

package hatchery

import "syscall"

// spawnSysProcAttr returns platform-specific attributes for spawned workers.
// On Unix the child starts its own session so it is detached from the
// parent's controlling terminal.
func spawnSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid: true,
	}
}
