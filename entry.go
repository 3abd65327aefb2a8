package hatchery

import "fmt"

// entryFunc is the type-erased form an entry takes in the registry. The
// generic wrapper built by Register decodes the raw parameter bytes into the
// concrete type before calling through, so a mismatch is impossible via the
// public surface.
type entryFunc func(param []byte, pair *ChannelPair)

// registry maps entry names to their erased functions. Populated during
// single-threaded startup, read-only afterward, so no lock is needed.
var registry = map[string]entryFunc{}

// Entry is the token returned by Register. It carries the parameter type so
// Spawn can only be called with a value of the type the entry was registered
// with.
type Entry[P any] struct {
	name string
}

// Name returns the entry's registered name.
func (e Entry[P]) Name() string { return e.name }

// Register binds fn to name in the process-wide entry registry and returns a
// typed token for it. Registering the same name twice panics: entries must be
// unique for the life of the process, and a duplicate is a programming error
// with no recovery path.
//
// Register must be called before CheckEntryPoint, typically from package
// variable initialization or init functions, so that the set of entries is
// identical in the parent and in any re-executed child.
func Register[P any](name string, fn func(P, *ChannelPair)) Entry[P] {
	if _, dup := registry[name]; dup {
		panic("hatchery: duplicate entry " + name)
	}
	registry[name] = func(raw []byte, pair *ChannelPair) {
		var p P
		if len(raw) > 0 {
			if err := DefaultCodec.Unmarshal(raw, &p); err != nil {
				panic(fmt.Sprintf("hatchery: decode parameter for entry %q: %v", name, err))
			}
		}
		fn(p, pair)
	}
	return Entry[P]{name: name}
}

// resolve looks up a name recorded in a dispatch context. An unknown name
// means the child binary does not match the parent that spawned it (or the
// environment was corrupted); there is nothing sensible to run, so panic.
func resolve(name string) entryFunc {
	fn, ok := registry[name]
	if !ok {
		panic("hatchery: unknown entry " + name)
	}
	return fn
}
