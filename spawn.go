package hatchery

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// LogMode selects where a spawned child's stdout and stderr go.
type LogMode int

const (
	// LogModeTruncate creates or truncates the log file.
	LogModeTruncate LogMode = iota
	// LogModeAppend opens the log file for writing and seeks to its end, so
	// prior content is preserved.
	LogModeAppend
	// LogModeInherit reuses the spawning process's own stdout and stderr.
	LogModeInherit
)

// SpawnOptions configures one Spawn call. The zero value spawns over pipes
// with stdout/stderr sent to a truncated LogFile (or discarded when LogFile
// is empty).
type SpawnOptions struct {
	// Reason, when non-empty, is recorded together with the child pid in the
	// installed ProcessRecorder.
	Reason string

	// LogFile receives the child's stdout and stderr under LogModeTruncate
	// and LogModeAppend. Empty means the null device.
	LogFile string

	// Mode selects the channel transport. Default ModePipe.
	Mode ChannelMode

	// LogMode selects the stdio redirection policy. Default LogModeTruncate.
	LogMode LogMode
}

// ProcessRecorder is the external bookkeeping hook: Spawn reports each
// (reason, pid) it creates so that something outside this package can keep a
// durable record for diagnostics.
type ProcessRecorder interface {
	Record(reason string, pid int) error
}

var recorder ProcessRecorder

// SetProcessRecorder installs the spawn bookkeeping sink. Pass nil to
// disable. Recording failures are logged, never fatal to the spawn.
func SetProcessRecorder(r ProcessRecorder) {
	recorder = r
}

// extraFileBase is the first descriptor number os/exec assigns to ExtraFiles
// in the child. The context records descriptor numbers relative to it so the
// child can rebuild its channel pair without any negotiation.
const extraFileBase = 3

// Spawn launches a new instance of the currently running executable, with no
// arguments, and dispatches it to the registered entry with param. The call
// context travels through the environment and a temp file (see package doc);
// the child's channel descriptors are inherited across the exec.
//
// Spawn returns once the OS process exists. Process-creation failure is
// returned to the caller; there is no retry.
func Spawn[P any](entry Entry[P], param P, opts SpawnOptions) (*Handle, error) {
	parentPair, childPair, err := newChannelPairs(opts.Mode)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*Handle, error) {
		parentPair.Close()
		childPair.Close()
		return nil, err
	}

	// struct{} is the "no parameter" convention; it encodes to nothing and
	// the entry wrapper skips the decode on empty input.
	var raw []byte
	if _, noParam := any(param).(struct{}); !noParam {
		raw, err = DefaultCodec.Marshal(param)
		if err != nil {
			return fail(fmt.Errorf("failed to encode parameter for %s: %w", entry.name, err))
		}
	}

	// The child sees its channel on deterministic descriptor numbers: one
	// duplex descriptor, or (read, write) in that order.
	var childFiles []*os.File
	var childFds []int
	if childPair.In == childPair.Out {
		childFiles = []*os.File{childPair.In.f}
		childFds = []int{extraFileBase}
	} else {
		childFiles = []*os.File{childPair.In.f, childPair.Out.f}
		childFds = []int{extraFileBase, extraFileBase + 1}
	}

	env, ctxPath, err := writeContext(entry.name, raw, childFds)
	if err != nil {
		return fail(err)
	}

	stdout, stderr, closeStdio, err := resolveStdio(opts)
	if err != nil {
		os.Remove(ctxPath)
		return fail(err)
	}

	exe, err := os.Executable()
	if err != nil {
		closeStdio()
		os.Remove(ctxPath)
		return fail(fmt.Errorf("failed to get executable path: %w", err))
	}

	cmd := &exec.Cmd{
		Path: exe,
		Args: []string{exe},
		Env:  append(os.Environ(), env...),
		// Stdin nil means the null device; a daemonized child never reads
		// the parent's stdin.
		Stdout:      stdout,
		Stderr:      stderr,
		ExtraFiles:  childFiles,
		SysProcAttr: spawnSysProcAttr(),
	}
	if err := cmd.Start(); err != nil {
		closeStdio()
		os.Remove(ctxPath)
		return fail(fmt.Errorf("failed to spawn %s: %w", entry.name, err))
	}
	pid := cmd.Process.Pid
	cmd.Process.Release()

	logger.Debug().Str("entry", entry.name).Int("pid", pid).Msg("spawned worker")

	if opts.Reason != "" && recorder != nil {
		if err := recorder.Record(opts.Reason, pid); err != nil {
			logger.Warn().Err(err).Int("pid", pid).Msg("failed to record spawn")
		}
	}

	// The child holds its own copies now; drop ours along with the stdio
	// descriptors opened for it.
	childPair.Close()
	closeStdio()

	return &Handle{Pair: parentPair, PID: pid}, nil
}

// resolveStdio opens the descriptors the child's stdout and stderr will be
// bound to, per the log mode.
func resolveStdio(opts SpawnOptions) (stdout, stderr *os.File, cleanup func(), err error) {
	if opts.LogMode == LogModeInherit {
		return os.Stdout, os.Stderr, func() {}, nil
	}
	f, err := openLogFile(opts.LogFile, opts.LogMode)
	if err != nil {
		return nil, nil, nil, err
	}
	return f, f, func() { f.Close() }, nil
}

// openLogFile opens path per mode, creating the log directory first. An
// empty path means the null device.
func openLogFile(path string, mode LogMode) (*os.File, error) {
	if path == "" {
		return os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if mode == LogModeAppend {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		// Manual append: seek to end-of-file instead of O_APPEND, whose
		// semantics are not uniform across all supported platforms.
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to seek log file: %w", err)
		}
		return f, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
