//go:build windows

package hatchery

import "syscall"

// spawnSysProcAttr returns platform-specific attributes for spawned workers.
// On Windows a new process group stands in for session detachment.
func spawnSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
