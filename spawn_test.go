//go:build unix

package hatchery

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Spawn (end to end; the children are re-executions of this
// test binary, dispatched by TestMain's CheckEntryPoint):
// - echo worker round-trips a value over pipes and over a duplex socket
// - the spawn parameter survives the context handoff intact
// - LogModeTruncate discards prior log content, LogModeAppend preserves it,
//   LogModeInherit lands on the parent's own stream
// - a worker that returns normally exits 0, a panicking worker exits 2
// - spawns with a reason are reported to the installed ProcessRecorder
// - a closed handle rejects further I/O

// waitExit reaps the child and returns its exit status. Spawned workers are
// direct children of the test process, so this stands in for the external
// supervisor the library itself deliberately does not provide.
func waitExit(t *testing.T, pid int) int {
	t.Helper()
	var ws syscall.WaitStatus
	for {
		_, err := syscall.Wait4(pid, &ws, 0, nil)
		if err == syscall.EINTR {
			continue
		}
		require.NoError(t, err)
		return ws.ExitStatus()
	}
}

func TestSpawn_EchoRoundTrip(t *testing.T) {
	h, err := Spawn(echoOnce, struct{}{}, SpawnOptions{
		LogFile: filepath.Join(t.TempDir(), "echo.log"),
	})
	require.NoError(t, err)
	require.Greater(t, h.PID, 0)

	require.NoError(t, h.Pair.Out.Send(42))

	h.Pair.In.SetReadTimeout(30 * time.Second)
	var reply int
	require.NoError(t, h.Pair.In.Recv(&reply))
	assert.Equal(t, 42, reply)

	assert.Equal(t, 0, waitExit(t, h.PID))

	require.NoError(t, h.Close())
	assert.Error(t, h.Pair.Out.Send(1))
	assert.Error(t, h.Pair.In.Recv(&reply))
}

func TestSpawn_SocketEchoRoundTrip(t *testing.T) {
	h, err := Spawn(echoOnce, struct{}{}, SpawnOptions{
		LogFile: filepath.Join(t.TempDir(), "echo.log"),
		Mode:    ModeSocket,
	})
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Pair.Out.Send(1234))

	h.Pair.In.SetReadTimeout(30 * time.Second)
	var reply int
	require.NoError(t, h.Pair.In.Recv(&reply))
	assert.Equal(t, 1234, reply)

	assert.Equal(t, 0, waitExit(t, h.PID))
}

func TestSpawn_ParamRoundTrip(t *testing.T) {
	want := testParam{Name: "round-trip", Count: 17, Tags: []string{"spawn", "param"}}

	h, err := Spawn(paramEcho, want, SpawnOptions{
		LogFile: filepath.Join(t.TempDir(), "param.log"),
	})
	require.NoError(t, err)
	defer h.Close()

	h.Pair.In.SetReadTimeout(30 * time.Second)
	var got testParam
	require.NoError(t, h.Pair.In.Recv(&got))
	assert.Equal(t, want, got)

	assert.Equal(t, 0, waitExit(t, h.PID))
}

func TestSpawn_LogTruncate(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "worker.log")
	require.NoError(t, os.WriteFile(logPath, []byte("OLD"), 0o644))

	h, err := Spawn(stderrWriter, "NEW", SpawnOptions{
		LogFile: logPath,
		LogMode: LogModeTruncate,
	})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 0, waitExit(t, h.PID))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "NEW", string(content))
}

func TestSpawn_LogAppend(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "worker.log")
	require.NoError(t, os.WriteFile(logPath, []byte("OLD"), 0o644))

	h, err := Spawn(stderrWriter, "NEW", SpawnOptions{
		LogFile: logPath,
		LogMode: LogModeAppend,
	})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 0, waitExit(t, h.PID))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "OLDNEW", string(content))
}

func TestSpawn_LogAppend_CreatesMissingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "sub", "dir", "worker.log")

	h, err := Spawn(stderrWriter, "fresh", SpawnOptions{
		LogFile: logPath,
		LogMode: LogModeAppend,
	})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 0, waitExit(t, h.PID))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(content))
}

func TestSpawn_LogInherit(t *testing.T) {
	// The child inherits whatever the parent's stderr is at spawn time;
	// point it at a file for the duration of the test.
	f, err := os.Create(filepath.Join(t.TempDir(), "inherited"))
	require.NoError(t, err)
	defer f.Close()

	saved := os.Stderr
	os.Stderr = f
	defer func() { os.Stderr = saved }()

	h, err := Spawn(stderrWriter, "SHARED", SpawnOptions{LogMode: LogModeInherit})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 0, waitExit(t, h.PID))

	content, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "SHARED", string(content))
}

func TestSpawn_PanicExitsTwo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "panic.log")

	h, err := Spawn(panicker, 0, SpawnOptions{LogFile: logPath})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 2, waitExit(t, h.PID))

	// The failure message and stack land on the worker's stderr.
	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "worker failure for exit code test")
}

type stubRecorder struct {
	reason string
	pid    int
}

func (r *stubRecorder) Record(reason string, pid int) error {
	r.reason = reason
	r.pid = pid
	return nil
}

func TestSpawn_RecordsReason(t *testing.T) {
	rec := &stubRecorder{}
	SetProcessRecorder(rec)
	defer SetProcessRecorder(nil)

	h, err := Spawn(stderrWriter, "", SpawnOptions{
		Reason:  "unit test spawn",
		LogFile: filepath.Join(t.TempDir(), "rec.log"),
	})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, "unit test spawn", rec.reason)
	assert.Equal(t, h.PID, rec.pid)

	waitExit(t, h.PID)
}

func TestSpawn_NoReasonSkipsRecorder(t *testing.T) {
	rec := &stubRecorder{}
	SetProcessRecorder(rec)
	defer SetProcessRecorder(nil)

	h, err := Spawn(stderrWriter, "", SpawnOptions{
		LogFile: filepath.Join(t.TempDir(), "rec.log"),
	})
	require.NoError(t, err)
	defer h.Close()

	assert.Zero(t, rec.pid)

	waitExit(t, h.PID)
}
