//go:build !(linux || darwin)

package hatchery

// Fork requires a true fork(2) primitive; use Spawn on this platform.
func Fork(opts ForkOptions, fn func(*ChannelPair)) (*Handle, error) {
	return nil, ErrForkUnsupported
}
