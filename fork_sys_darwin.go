//go:build darwin

package hatchery

import "syscall"

// Darwin's raw fork follows the BSD two-value convention: both processes get
// the parent's pid in r1, and the child is marked by r2 == 1. The libc stub
// that normally zeroes r1 in the child is bypassed here, so translate.
func sysFork() (uintptr, syscall.Errno) {
	pid, isChild, errno := syscall.RawSyscall(syscall.SYS_FORK, 0, 0, 0)
	if errno == 0 && isChild == 1 {
		pid = 0
	}
	return pid, errno
}

func sysDup2(oldfd, newfd int) error {
	return syscall.Dup2(oldfd, newfd)
}
