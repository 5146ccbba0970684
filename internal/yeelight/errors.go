package yeelight

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an exchange failed.
type ErrorKind int

const (
	// EncodingError means text on either path left the 7-bit wire charset.
	EncodingError ErrorKind = iota + 1
	// TransportError means the write or read on the stream failed.
	TransportError
	// SerializationError means the command could not be turned into JSON.
	SerializationError
)

func (k ErrorKind) String() string {
	switch k {
	case EncodingError:
		return "encoding"
	case TransportError:
		return "transport"
	case SerializationError:
		return "serialization"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is against a ProtocolError of the same kind.
var (
	ErrEncoding      = errors.New("yeelight: encoding error")
	ErrTransport     = errors.New("yeelight: transport error")
	ErrSerialization = errors.New("yeelight: serialization error")
)

// ProtocolError is the only error type returned by an exchange.
type ProtocolError struct {
	Kind ErrorKind
	// Op is the failed step: "marshal", "encode", "dial", "write", "read" or "decode".
	Op string
	// Text and Pos locate the offending character for encoding errors.
	Text string
	Pos  int
	Err  error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("yeelight: %s error during %s", e.Kind, e.Op)
	if e.Kind == EncodingError {
		msg += fmt.Sprintf(" at byte %d of %q", e.Pos, e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func (e *ProtocolError) Is(target error) bool {
	switch target {
	case ErrEncoding:
		return e.Kind == EncodingError
	case ErrTransport:
		return e.Kind == TransportError
	case ErrSerialization:
		return e.Kind == SerializationError
	}
	return false
}

// KindOf returns the kind of the first ProtocolError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
