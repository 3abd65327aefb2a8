package hatchery

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Environment variables carrying the dispatch context across the re-exec
// boundary. The entry name is small and fixed-size, so it rides in the
// environment directly; the parameter payload is unbounded, so it goes
// through a temp file whose path rides in the second variable.
const (
	envEntry = "HATCHERY_ENTRY"
	envParam = "HATCHERY_ENTRY_PARAM"
)

// bootContext is the bundle that must survive the process-image replacement:
// which entry to run, its encoded parameter, and the descriptor numbers the
// child will find its channel on.
type bootContext struct {
	Fds   []int
	Param []byte
}

// writeContext persists the dispatch context for one child and returns the
// environment assignments to place in that child's environment, plus the
// temp file path so the caller can clean up if process creation fails.
//
// The assignments go into the child's env slice rather than the parent's own
// environment: concurrent spawns from one parent must not race on a shared
// process-global variable.
func writeContext(entry string, param []byte, fds []int) (env []string, path string, err error) {
	f, err := os.CreateTemp("", "hatchery-"+uuid.NewString())
	if err != nil {
		return nil, "", fmt.Errorf("failed to create context file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(bootContext{Fds: fds, Param: param}); err != nil {
		os.Remove(f.Name())
		return nil, "", fmt.Errorf("failed to write context file: %w", err)
	}

	env = []string{
		envEntry + "=" + entry,
		envParam + "=" + f.Name(),
	}
	return env, f.Name(), nil
}

// readContext recovers the dispatch context in a freshly executed process.
// If either variable is absent this is a normal startup and ok is false. A
// present-but-unreadable context is fatal: the process was launched solely to
// dispatch and has nothing else to do.
//
// The context file is deleted before returning, and both variables are
// cleared so the context cannot leak into anything this process execs later.
func readContext() (entry string, bc bootContext, ok bool) {
	entry = os.Getenv(envEntry)
	path := os.Getenv(envParam)
	if entry == "" || path == "" {
		return "", bootContext{}, false
	}

	f, err := os.Open(path)
	if err != nil {
		panic(fmt.Sprintf("hatchery: cannot find daemon parameters: %v", err))
	}
	if err := gob.NewDecoder(f).Decode(&bc); err != nil {
		f.Close()
		panic(fmt.Sprintf("hatchery: cannot find daemon parameters: %v", err))
	}
	f.Close()
	os.Remove(path)
	os.Unsetenv(envEntry)
	os.Unsetenv(envParam)
	return entry, bc, true
}
