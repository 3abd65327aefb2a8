//go:build windows

package hatchery

import (
	"errors"
	"os"
	"time"
)

var (
	errSocketUnsupported  = errors.New("hatchery: socket channel mode is not supported on windows")
	errTimeoutUnsupported = errors.New("hatchery: read timeouts are not supported on windows")
)

// newSocketFiles is unsupported on Windows; use ModePipe.
func newSocketFiles() (parent, child *os.File, err error) {
	return nil, nil, errSocketUnsupported
}

// Descriptor inheritance on Windows is decided at process creation, not by a
// per-descriptor flag, so these are no-ops.
func setCloseOnExec(f *os.File)   {}
func clearCloseOnExec(f *os.File) {}

// pollRead has no bounded-wait primitive for pipe handles here. A configured
// timeout cannot be honored, and silently blocking forever would hide that,
// so the read fails instead.
func pollRead(fd int, timeout time.Duration) error {
	return errTimeoutUnsupported
}
