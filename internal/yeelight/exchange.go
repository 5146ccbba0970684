package yeelight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	// DefaultBufferSize is the capacity of the single response read.
	DefaultBufferSize = 1024
	// DefaultMaxLineSize bounds SendLine replies.
	DefaultMaxLineSize = 16 * 1024

	lineTerminator = "\r\n"
)

// Logger receives diagnostics. Implementations must not block.
type Logger interface {
	Debug(format string, v ...interface{})
}

// Observer is told about every finished exchange.
type Observer func(method Method, elapsed time.Duration, err error)

// Exchanger runs one request/response cycle per call on a caller-owned
// stream. The zero value is ready to use. An Exchanger holds no state
// between calls, but exchanges on the same stream must not overlap.
type Exchanger struct {
	// BufferSize is the read capacity, DefaultBufferSize when <= 0.
	BufferSize int
	// MaxLineSize bounds SendLine, DefaultMaxLineSize when <= 0.
	MaxLineSize int
	Logger      Logger
	Observer    Observer
}

// DefaultExchanger is used by Send.
var DefaultExchanger = &Exchanger{}

// Send writes cmd as one CRLF-terminated JSON line and returns whatever a
// single read of up to DefaultBufferSize bytes yields. A reply longer than
// the buffer, or split across reads, comes back truncated.
func Send(cmd *Command, stream io.ReadWriter) (string, error) {
	return DefaultExchanger.Send(cmd, stream)
}

// Encode serializes cmd to its wire bytes, terminator included. String
// parameters are checked before marshalling so that JSON escaping can never
// turn non-ASCII text into an ASCII escape sequence.
func Encode(cmd *Command) ([]byte, error) {
	if cmd == nil {
		return nil, &ProtocolError{Kind: SerializationError, Op: "marshal", Err: errors.New("nil command")}
	}
	for _, p := range cmd.params {
		if s, ok := p.(StringParam); ok {
			if _, err := EncodeASCII(string(s)); err != nil {
				return nil, err
			}
		}
	}

	b, err := marshalJSON(cmd)
	if err != nil {
		return nil, &ProtocolError{Kind: SerializationError, Op: "marshal", Err: err}
	}
	return EncodeASCII(string(b) + lineTerminator)
}

// Send performs one exchange with a single fixed-size read.
func (x *Exchanger) Send(cmd *Command, stream io.ReadWriter) (reply string, err error) {
	start := time.Now()
	defer func() { x.observe(cmd, start, err) }()

	if err = x.write(cmd, stream); err != nil {
		return "", err
	}

	buf := make([]byte, x.bufferSize())
	n, rerr := stream.Read(buf)
	if n == 0 && rerr != nil {
		return "", &ProtocolError{Kind: TransportError, Op: "read", Err: rerr}
	}
	x.debug("Received %d bytes: %q", n, buf[:n])

	return DecodeASCII(buf[:n])
}

// SendLine is the strict variant of Send: it keeps reading until the reply's
// own CRLF arrives and returns the line including the terminator. Bytes the
// bulb sent after the terminator are discarded.
func (x *Exchanger) SendLine(cmd *Command, stream io.ReadWriter) (reply string, err error) {
	start := time.Now()
	defer func() { x.observe(cmd, start, err) }()

	if err = x.write(cmd, stream); err != nil {
		return "", err
	}

	limit := x.MaxLineSize
	if limit <= 0 {
		limit = DefaultMaxLineSize
	}

	var line []byte
	chunk := make([]byte, x.bufferSize())
	for {
		n, rerr := stream.Read(chunk)
		line = append(line, chunk[:n]...)
		if i := bytes.Index(line, []byte(lineTerminator)); i >= 0 {
			line = line[:i+len(lineTerminator)]
			break
		}
		if len(line) > limit {
			return "", &ProtocolError{Kind: TransportError, Op: "read", Err: fmt.Errorf("reply exceeds %d bytes without line terminator", limit)}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				rerr = io.ErrUnexpectedEOF
			}
			return "", &ProtocolError{Kind: TransportError, Op: "read", Err: rerr}
		}
	}
	x.debug("Received line: %q", line)

	return DecodeASCII(line)
}

func (x *Exchanger) write(cmd *Command, w io.Writer) error {
	out, err := Encode(cmd)
	if err != nil {
		return err
	}
	x.debug("Sending %d bytes: %q", len(out), out)

	n, err := w.Write(out)
	if err == nil && n < len(out) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &ProtocolError{Kind: TransportError, Op: "write", Err: err}
	}
	return nil
}

func (x *Exchanger) bufferSize() int {
	if x.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return x.BufferSize
}

func (x *Exchanger) debug(format string, v ...interface{}) {
	if x.Logger != nil {
		x.Logger.Debug(format, v...)
	}
}

func (x *Exchanger) observe(cmd *Command, start time.Time, err error) {
	if x.Observer != nil && cmd != nil {
		x.Observer(cmd.Method(), time.Since(start), err)
	}
}
