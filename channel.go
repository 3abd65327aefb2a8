package hatchery

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"time"
)

// ChannelMode selects the physical transport backing a channel pair.
type ChannelMode int

const (
	// ModePipe allocates two unidirectional OS pipes, one per direction.
	ModePipe ChannelMode = iota
	// ModeSocket allocates a single duplex unix socket pair; each side uses
	// one descriptor for both reading and writing. Unix only.
	ModeSocket
)

// Endpoint is one readable or writable end of a channel. Reads are buffered
// and optionally bounded by a timeout; writes go straight to the descriptor.
type Endpoint struct {
	f       *os.File
	br      *bufio.Reader
	codec   Codec
	timeout time.Duration
}

func newEndpoint(f *os.File, codec Codec) *Endpoint {
	return &Endpoint{f: f, br: bufio.NewReader(f), codec: codec}
}

// SetReadTimeout bounds every subsequent read on the endpoint. Zero (the
// default) means block until data arrives. A read that exceeds the bound
// fails with ErrTimeout; the wait is a poll on the descriptor, not a
// cancellation of an in-flight read.
func (e *Endpoint) SetReadTimeout(d time.Duration) {
	e.timeout = d
}

// Read implements io.Reader with the endpoint's buffered, timeout-bounded
// semantics. A closed peer surfaces as io.EOF.
func (e *Endpoint) Read(p []byte) (int, error) {
	if err := e.wait(); err != nil {
		return 0, err
	}
	return e.br.Read(p)
}

// Write implements io.Writer. Blocking follows the OS pipe/socket buffer;
// there is no flow control above it.
func (e *Endpoint) Write(p []byte) (int, error) {
	return e.f.Write(p)
}

// Send encodes v with the pair's codec and writes it as one length-prefixed
// frame.
func (e *Endpoint) Send(v any) error {
	payload, err := e.codec.Marshal(v)
	if err != nil {
		return err
	}
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	_, err = e.f.Write(frame)
	return err
}

// Recv reads one length-prefixed frame and decodes it into v, which must be a
// pointer. Frames arrive in the order the peer sent them.
func (e *Endpoint) Recv(v any) error {
	var hdr [4]byte
	if _, err := io.ReadFull(e, hdr[:]); err != nil {
		return err
	}
	payload := make([]byte, binary.BigEndian.Uint32(hdr[:]))
	if _, err := io.ReadFull(e, payload); err != nil {
		return err
	}
	return e.codec.Unmarshal(payload, v)
}

// Close releases the endpoint's descriptor. Further reads and writes fail.
// Not idempotent.
func (e *Endpoint) Close() error {
	return e.f.Close()
}

// wait blocks until the endpoint is readable or the read timeout expires.
// Data already sitting in the buffer satisfies the read immediately.
func (e *Endpoint) wait() error {
	if e.timeout <= 0 || e.br.Buffered() > 0 {
		return nil
	}
	return pollRead(int(e.f.Fd()), e.timeout)
}

/// ChannelPair is one side's view of a channel: a readable endpoint and a
// writable endpoint. In the duplex socket case both fields point at the same
// endpoint.
type ChannelPair struct {
	In  *Endpoint
	Out *Endpoint
}

// Close closes both endpoints. The shared descriptor of a duplex pair is
// closed exactly once.
func (p *ChannelPair) Close() error {
	err := p.In.Close()
	if p.Out != p.In {
		if err2 := p.Out.Close(); err == nil {
			err = err2
		}
	}
	return err
}

func pipePair(in, out *os.File, codec Codec) *ChannelPair {
	return &ChannelPair{In: newEndpoint(in, codec), Out: newEndpoint(out, codec)}
}

func duplexPair(f *os.File, codec Codec) *ChannelPair {
	ep := newEndpoint(f, codec)
	return &ChannelPair{In: ep, Out: ep}
}

// newChannelPairs creates the two sides of a channel. Descriptors the parent
// retains are marked close-on-exec so they cannot leak into unrelated
// processes the parent execs later; descriptors destined for the child have
// the flag cleared so they survive the child's image replacement.
func newChannelPairs(mode ChannelMode) (parent, child *ChannelPair, err error) {
	codec := DefaultCodec
	switch mode {
	case ModePipe:
		childIn, parentOut, err := os.Pipe()
		if err != nil {
			return nil, nil, err
		}
		parentIn, childOut, err := os.Pipe()
		if err != nil {
			childIn.Close()
			parentOut.Close()
			return nil, nil, err
		}
		setCloseOnExec(parentIn)
		setCloseOnExec(parentOut)
		clearCloseOnExec(childIn)
		clearCloseOnExec(childOut)
		return pipePair(parentIn, parentOut, codec), pipePair(childIn, childOut, codec), nil
	case ModeSocket:
		parentSock, childSock, err := newSocketFiles()
		if err != nil {
			return nil, nil, err
		}
		setCloseOnExec(parentSock)
		clearCloseOnExec(childSock)
		return duplexPair(parentSock, codec), duplexPair(childSock, codec), nil
	default:
		return nil, nil, errUnknownChannelMode(mode)
	}
}
