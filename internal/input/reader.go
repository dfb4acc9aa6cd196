package input

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

// DefaultEscapeDelay is how long a partial escape sequence waits for the
// rest of its bytes before it is passed on as is.
const DefaultEscapeDelay = 50 * time.Millisecond

const readChunk = 256

// Reader passes terminal input through, holding back an escape sequence
// that a read split in two until its final byte arrives or the delay
// runs out. Key decoders see "\x1b[A" in one piece instead of an escape
// key followed by "[A".
//
// Read is not safe for concurrent use. Close may be called from any
// goroutine.
type Reader struct {
	// OnEnd runs once, from Read, when the source is exhausted and every
	// byte it produced has been returned. err is the read error that ended
	// the source (io.EOF for a clean end). It is not called after Close.
	OnEnd func(err error)

	src    io.Reader
	delay  time.Duration
	chunks chan chunk
	done   chan struct{}
	once   sync.Once

	pending  []byte
	deadline time.Time
	srcErr   error
	ended    bool
}

type chunk struct {
	data []byte
	err  error
}

// NewReader starts reading src. delay <= 0 means DefaultEscapeDelay.
func NewReader(src io.Reader, delay time.Duration) *Reader {
	if delay <= 0 {
		delay = DefaultEscapeDelay
	}
	r := &Reader{
		src:    src,
		delay:  delay,
		chunks: make(chan chunk),
		done:   make(chan struct{}),
	}
	go r.pump()
	return r
}

func (r *Reader) pump() {
	for {
		buf := make([]byte, readChunk)
		n, err := r.src.Read(buf)
		if n > 0 {
			select {
			case r.chunks <- chunk{data: buf[:n]}:
			case <-r.done:
				return
			}
		}
		if err != nil {
			select {
			case r.chunks <- chunk{err: err}:
			case <-r.done:
			}
			return
		}
	}
}

// Read implements io.Reader. After the source ends or Close is called it
// returns io.EOF.
func (r *Reader) Read(p []byte) (int, error) {
	for {
		if len(r.pending) > 0 {
			if r.srcErr != nil || !partialEscape(r.pending) || !time.Now().Before(r.deadline) {
				return r.drain(p), nil
			}
		} else if r.srcErr != nil {
			r.finish()
			return 0, io.EOF
		}

		var timeout <-chan time.Time
		if len(r.pending) > 0 {
			timeout = time.After(time.Until(r.deadline))
		}

		select {
		case c := <-r.chunks:
			if len(c.data) > 0 {
				if !partialEscape(r.pending) {
					r.deadline = time.Now().Add(r.delay)
				}
				r.pending = append(r.pending, c.data...)
			}
			if c.err != nil {
				r.srcErr = c.err
			}
		case <-timeout:
			return r.drain(p), nil
		case <-r.done:
			return 0, io.EOF
		}
	}
}

func (r *Reader) drain(p []byte) int {
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	if len(r.pending) == 0 {
		r.pending = nil
	}
	return n
}

func (r *Reader) finish() {
	if r.ended {
		return
	}
	r.ended = true
	select {
	case <-r.done:
		return
	default:
	}
	if r.OnEnd != nil {
		r.OnEnd(r.srcErr)
	}
}

// Close stops the Reader. A Read in progress returns io.EOF. The source is
// left open.
func (r *Reader) Close() error {
	r.once.Do(func() { close(r.done) })
	return nil
}

// Fd returns the source's descriptor so the terminal it reads from can be
// switched to raw mode. Sources without one report an invalid descriptor.
func (r *Reader) Fd() uintptr {
	if f, ok := r.src.(interface{ Fd() uintptr }); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

// Write passes through to the source when it is writable, as a terminal is.
func (r *Reader) Write(p []byte) (int, error) {
	if w, ok := r.src.(io.Writer); ok {
		return w.Write(p)
	}
	return 0, errors.New("input source is read-only")
}

// partialEscape reports whether b ends inside an escape sequence: a bare
// ESC, an SS3 introducer, or a CSI with no final byte yet.
func partialEscape(b []byte) bool {
	i := bytes.LastIndexByte(b, 0x1b)
	if i < 0 {
		return false
	}
	seq := b[i+1:]
	switch {
	case len(seq) == 0:
		return true
	case seq[0] == 'O':
		return len(seq) == 1
	case seq[0] == '[':
		for _, c := range seq[1:] {
			if c < 0x20 || c > 0x3f {
				return false
			}
		}
		return true
	}
	return false
}
