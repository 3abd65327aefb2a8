//go:build unix

package hatchery

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// newSocketFiles allocates one duplex unix socket pair.
func newSocketFiles() (parent, child *os.File, err error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err)
	}
	return os.NewFile(uintptr(fds[0]), "channel|parent"),
		os.NewFile(uintptr(fds[1]), "channel|child"), nil
}

func setCloseOnExec(f *os.File) {
	unix.CloseOnExec(int(f.Fd()))
}

func clearCloseOnExec(f *os.File) {
	unix.FcntlInt(f.Fd(), unix.F_SETFD, 0)
}

// pollRead waits until fd is readable or the timeout expires. EINTR restarts
// the wait against the original deadline.
func pollRead(fd int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		ms := 0
		if remaining > 0 {
			ms = int(remaining.Milliseconds()) + 1
		}
		pfds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(pfds, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return os.NewSyscallError("poll", err)
		}
		if n > 0 {
			return nil
		}
		// Data that is already pending is served even at an expired
		// deadline; only a genuinely empty descriptor times out.
		if time.Now().After(deadline) {
			return ErrTimeout
		}
	}
}
