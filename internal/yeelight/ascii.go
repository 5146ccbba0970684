package yeelight

import (
	"fmt"
	"unicode/utf8"
)

// EncodeASCII converts text to wire bytes. Any character above 0x7F fails;
// nothing is substituted or dropped.
func EncodeASCII(s string) ([]byte, error) {
	for i, r := range s {
		if r >= utf8.RuneSelf {
			return nil, &ProtocolError{
				Kind: EncodingError,
				Op:   "encode",
				Text: s,
				Pos:  i,
				Err:  fmt.Errorf("character %U is not ASCII", r),
			}
		}
	}
	return []byte(s), nil
}

// DecodeASCII converts wire bytes back to text, failing on any byte above 0x7F.
func DecodeASCII(b []byte) (string, error) {
	for i, c := range b {
		if c >= utf8.RuneSelf {
			return "", &ProtocolError{
				Kind: EncodingError,
				Op:   "decode",
				Text: string(b),
				Pos:  i,
				Err:  fmt.Errorf("byte 0x%02X is not ASCII", c),
			}
		}
	}
	return string(b), nil
}
