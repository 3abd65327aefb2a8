package hatchery

import "os"

// DevNullPID marks a handle with no live process behind it.
const DevNullPID = -1

// Handle represents a live-or-exited child process and owns the caller's
// side of its channel. Exactly one owner; it is not reference-counted.
type Handle struct {
	Pair *ChannelPair
	PID  int
}

// Close releases both channel endpoints. Further I/O on them fails. Close is
// not idempotent.
func (h *Handle) Close() error {
	return h.Pair.Close()
}

// Kill closes the handle's channel and forcibly terminates the process. It
// does not wait for or reap the process; that is the caller's concern.
func (h *Handle) Kill() error {
	err := h.Close()
	if h.PID <= 0 {
		return err
	}
	proc, ferr := os.FindProcess(h.PID)
	if ferr != nil {
		if err == nil {
			err = ferr
		}
		return err
	}
	if kerr := proc.Kill(); kerr != nil && err == nil {
		err = kerr
	}
	return err
}

// Signal delivers sig to the process without touching the channel.
func (h *Handle) Signal(sig os.Signal) error {
	if h.PID <= 0 {
		return os.ErrProcessDone
	}
	proc, err := os.FindProcess(h.PID)
	if err != nil {
		return err
	}
	return proc.Signal(sig)
}

// DevNull returns a handle whose endpoints read from and write to the null
// device and whose pid is DevNullPID. Useful for discarding output and in
// tests; it performs no real IPC.
func DevNull() (*Handle, error) {
	in, err := os.OpenFile(os.DevNull, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	out, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		in.Close()
		return nil, err
	}
	return &Handle{Pair: pipePair(in, out, DefaultCodec), PID: DevNullPID}, nil
}
