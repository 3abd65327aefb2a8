//go:build linux || darwin

package hatchery

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Fork:
// - the forked child shares parent state: fn closes over a local variable
// - values round-trip over the pipe pair in both directions
// - child stdout/stderr land in the (truncated) log file
// - a returning fn exits 0 even when the parent process (this test binary)
//   has exit hooks installed: the child leaves through the raw exit syscall
// - a panicking fn exits 1, not the dispatch-path code

func TestFork_EchoRoundTrip(t *testing.T) {
	// Captured state crosses into the child with no serialization; this is
	// the whole point of Fork over Spawn.
	suffix := "-forked"

	h, err := Fork(ForkOptions{}, func(pair *ChannelPair) {
		var msg string
		if err := pair.In.Recv(&msg); err != nil {
			return
		}
		pair.Out.Send(msg + suffix)
	})
	require.NoError(t, err)
	require.Greater(t, h.PID, 0)
	defer h.Close()

	require.NoError(t, h.Pair.Out.Send("hello"))

	h.Pair.In.SetReadTimeout(30 * time.Second)
	var reply string
	require.NoError(t, h.Pair.In.Recv(&reply))
	assert.Equal(t, "hello-forked", reply)

	assert.Equal(t, 0, waitExit(t, h.PID))
}

func TestFork_PanicExitsOne(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fork-panic.log")

	h, err := Fork(ForkOptions{LogFile: logPath}, func(pair *ChannelPair) {
		panic("fork child failure")
	})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 1, waitExit(t, h.PID))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "fork child failure")
}

func TestFork_LogFileTruncated(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fork.log")
	require.NoError(t, os.WriteFile(logPath, []byte("OLD"), 0o644))

	h, err := Fork(ForkOptions{LogFile: logPath}, func(pair *ChannelPair) {
		os.Stdout.WriteString("NEW")
	})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 0, waitExit(t, h.PID))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "NEW", string(content))
}
