//go:build linux || darwin

package hatchery

import (
	"fmt"
	"os"
	"syscall"
)

// Fork duplicates the current process and runs fn in the duplicate, connected
// to the caller through a fresh pipe pair. Unlike Spawn there is no
// re-serialization: the child shares the parent's already-initialized memory.
// That also makes it unsafe if the parent holds state that must not be
// duplicated (extra threads, open non-inheritable resources); callers choose
// between Fork and Spawn explicitly for that reason.
//
// In the child: the session is detached, the parent-side descriptors are
// closed, stdin is bound to the null device, stdout/stderr go to
// opts.LogFile (created or truncated) or the null device, and fn runs with
// the child's channel pair. The child exits 0 when fn returns and 1 on any
// failure during setup or inside fn; it never reaches CheckEntryPoint's
// dispatcher. In the parent: Fork returns a Handle owning the parent-side
// pair.
func Fork(opts ForkOptions, fn func(*ChannelPair)) (*Handle, error) {
	childIn, parentOut, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	parentIn, childOut, err := os.Pipe()
	if err != nil {
		childIn.Close()
		parentOut.Close()
		return nil, err
	}

	// Raw descriptor numbers must be fixed before the fork; Fd() also takes
	// the files out of the runtime poller so they are safe to use on both
	// sides.
	parentFds := [2]int{int(parentIn.Fd()), int(parentOut.Fd())}
	childFds := [2]int{int(childIn.Fd()), int(childOut.Fd())}

	pid, errno := sysFork()
	if errno != 0 {
		childIn.Close()
		childOut.Close()
		parentIn.Close()
		parentOut.Close()
		return nil, os.NewSyscallError("fork", errno)
	}

	if pid == 0 {
		// Raw syscall exit: the duplicated process must not run the
		// parent's registered exit handlers (or the test harness's
		// paniconexit0 hook) on its way out.
		syscall.Exit(runForkChild(childFds, parentFds, opts, fn))
	}

	childIn.Close()
	childOut.Close()
	logger.Debug().Int("pid", int(pid)).Msg("forked worker")
	return &Handle{Pair: pipePair(parentIn, parentOut, DefaultCodec), PID: int(pid)}, nil
}

// runForkChild is the whole life of a forked child. Any panic during fn maps
// to exit code 1: this path never reaches the shared dispatcher, so it does
// not use the dispatch failure code.
func runForkChild(childFds, parentFds [2]int, opts ForkOptions, fn func(*ChannelPair)) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "hatchery: forked worker failed: %v\n", r)
			code = 1
		}
	}()

	if err := daemonizeForkChild(parentFds, opts.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "hatchery: forked worker setup failed: %v\n", err)
		return 1
	}

	pair := pipePair(
		os.NewFile(uintptr(childFds[0]), "channel|in"),
		os.NewFile(uintptr(childFds[1]), "channel|out"),
		DefaultCodec,
	)
	fn(pair)
	return 0
}

// daemonizeForkChild detaches the forked child from its session, drops the
// parent-side channel descriptors, and rebinds the standard streams.
func daemonizeForkChild(parentFds [2]int, logFile string) error {
	syscall.Setsid()
	syscall.Close(parentFds[0])
	syscall.Close(parentFds[1])

	devnull, err := syscall.Open(os.DevNull, syscall.O_RDONLY, 0)
	if err != nil {
		return err
	}
	if err := sysDup2(devnull, 0); err != nil {
		return err
	}
	if devnull > 2 {
		syscall.Close(devnull)
	}

	out := 0
	if logFile != "" {
		out, err = syscall.Open(logFile, syscall.O_WRONLY|syscall.O_CREAT|syscall.O_TRUNC, 0o644)
	} else {
		out, err = syscall.Open(os.DevNull, syscall.O_WRONLY, 0)
	}
	if err != nil {
		return err
	}
	if err := sysDup2(out, 1); err != nil {
		return err
	}
	if err := sysDup2(out, 2); err != nil {
		return err
	}
	if out > 2 {
		syscall.Close(out)
	}
	return nil
}
