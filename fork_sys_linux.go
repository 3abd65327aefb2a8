//go:build linux

package hatchery

import "syscall"

// Not every Linux architecture has SYS_FORK (arm64 and riscv64 dropped it);
// clone with just SIGCHLD is the equivalent everywhere.
func sysFork() (uintptr, syscall.Errno) {
	pid, _, errno := syscall.RawSyscall(syscall.SYS_CLONE, uintptr(syscall.SIGCHLD), 0, 0)
	return pid, errno
}

func sysDup2(oldfd, newfd int) error {
	return syscall.Dup3(oldfd, newfd, 0)
}
