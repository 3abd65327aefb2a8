package hatchery

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned by endpoint reads when the configured read timeout
// expires before any data arrives. The caller decides whether to retry; the
// underlying descriptor is still usable.
var ErrTimeout = errors.New("hatchery: channel read timed out")

// ErrForkUnsupported is returned by Fork on platforms without a usable
// fork(2) primitive. Use Spawn there instead.
var ErrForkUnsupported = errors.New("hatchery: fork is not supported on this platform")

// IsTimeout reports whether err is (or wraps) a channel read timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

func errUnknownChannelMode(mode ChannelMode) error {
	return fmt.Errorf("hatchery: unknown channel mode %d", mode)
}
