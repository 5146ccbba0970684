package yeelight

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Param is a single positional argument of a Command. The wire format only
// knows integers and strings, so IntParam and StringParam are the only
// implementations.
type Param interface {
	json.Marshaler
	isParam()
}

// IntParam is sent as a JSON number.
type IntParam int32

// StringParam is sent as a JSON string.
type StringParam string

func (IntParam) isParam()    {}
func (StringParam) isParam() {}

func (p IntParam) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(p), 10), nil
}

// MarshalJSON refuses non-ASCII text rather than letting it become a
// \u escape.
func (p StringParam) MarshalJSON() ([]byte, error) {
	if _, err := EncodeASCII(string(p)); err != nil {
		return nil, err
	}
	return marshalJSON(string(p))
}

// marshalJSON is json.Marshal without HTML escaping, so '<', '>' and '&'
// reach the bulb as written.
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
