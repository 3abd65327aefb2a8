// Package hatchery spawns worker processes from the currently running
// executable and connects them to their creator over typed, bidirectional
// channels.
//
// # Core Components
//
// 1. Entry Registry (Register)
//   - Process-wide table of functions a worker process can be asked to run
//   - Registration is generic over the parameter type; storage is type-erased
//   - Names must be unique; duplicates are a programming error and panic
//
// 2. Process Spawning (Spawn, Fork)
//   - Spawn re-executes the current binary with no arguments and hands the
//     dispatch context over through environment variables plus a temp file
//   - Fork duplicates the current process directly (unix only) and runs the
//     supplied function in the child without any re-serialization
//
// 3. Boot-Time Dispatch (CheckEntryPoint)
//   - Must be the very first call of every binary built on this package
//   - Detects whether this process was launched as a dispatch target and,
//     if so, runs the registered entry and terminates
//
// # Usage Pattern: Register, Spawn, Communicate
//
//	var echo = hatchery.Register("echo", func(_ struct{}, pair *hatchery.ChannelPair) {
//	    var v int
//	    if err := pair.In.Recv(&v); err != nil {
//	        return
//	    }
//	    pair.Out.Send(v)
//	})
//
//	func main() {
//	    hatchery.CheckEntryPoint() // never returns if this is a worker
//
//	    h, err := hatchery.Spawn(echo, struct{}{}, hatchery.SpawnOptions{
//	        LogFile: "/tmp/echo.log",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer h.Close()
//
//	    h.Pair.Out.Send(42)
//	    var reply int
//	    h.Pair.In.Recv(&reply)
//	}
//
// # Re-Exec Contract
//
// A re-executed process shares no memory with its parent, so the call context
// (entry name, parameter, channel descriptor numbers) travels entirely through
// two environment variables and a temp file. The entry name rides in
// HATCHERY_ENTRY; the unbounded payload goes to a temp file whose path rides
// in HATCHERY_ENTRY_PARAM. The file is deleted on first read and never reread.
//
// Because configuration is environment-borne, every binary using this package
// must call CheckEntryPoint before any other application logic. Once
// CheckEntryPoint decides to dispatch it never returns: exit code 0 means the
// entry returned normally, exit code 2 means it panicked. The fork path uses
// exit code 1 for failures before or during the child function, which never
// reaches the shared dispatcher.
//
// # Concurrency Model
//
// The unit of concurrency is the OS process. Spawn and Fork block until the
// child exists. Channel reads block until data arrives unless a read timeout
// is set, in which case ErrTimeout is returned after a bounded wait. Writes
// block only on the OS pipe/socket buffer; there is no flow control above it.
// The registry must be fully populated during single-threaded startup, before
// CheckEntryPoint and before any Spawn; it is read-only afterward.
package hatchery
