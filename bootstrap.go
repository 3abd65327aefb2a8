package hatchery

import (
	"fmt"
	"os"
	"runtime/debug"
)

// CheckEntryPoint must run once, as the very first action of every binary
// built on this package, before any normal application logic. If the process
// was not launched as a dispatch target it returns immediately and startup
// proceeds unmodified. Otherwise it resolves the registered entry, rebuilds
// the channel pair from the inherited descriptors, runs the entry, and exits:
// 0 on normal return, 2 if the entry panicked (message and stack go to
// stderr). It never returns control to startup logic once it dispatches.
func CheckEntryPoint() {
	entry, bc, ok := readContext()
	if !ok {
		return
	}
	fn := resolve(entry)
	pair := pairFromFds(bc.Fds)
	logger.Debug().Str("entry", entry).Msg("dispatching")
	os.Exit(runEntry(entry, fn, bc.Param, pair))
}

// runEntry invokes the entry and converts its outcome to an exit code. The
// recover here is the only place a dispatched entry's panic is caught; there
// is no useful recovery inside a worker, only reporting.
func runEntry(name string, fn entryFunc, param []byte, pair *ChannelPair) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "hatchery: entry %q failed: %v\n%s", name, r, debug.Stack())
			code = 2
		}
	}()
	fn(param, pair)
	return 0
}

// pairFromFds rebuilds the child's side of the channel from the descriptor
// numbers delivered in the context: one duplex descriptor, or (read, write).
func pairFromFds(fds []int) *ChannelPair {
	switch len(fds) {
	case 1:
		return duplexPair(os.NewFile(uintptr(fds[0]), "channel"), DefaultCodec)
	case 2:
		return pipePair(
			os.NewFile(uintptr(fds[0]), "channel|in"),
			os.NewFile(uintptr(fds[1]), "channel|out"),
			DefaultCodec,
		)
	default:
		panic(fmt.Sprintf("hatchery: cannot find daemon parameters: %d descriptors", len(fds)))
	}
}
