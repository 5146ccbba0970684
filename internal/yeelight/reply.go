package yeelight

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Reply is a decoded line from the bulb. Exactly one of Result, Err or
// Props is set.
type Reply struct {
	ID     int32
	Result []string
	Err    *ReplyError
	// Props holds the changed properties of a "props" notification.
	Props map[string]string
}

// ReplyError is an error object returned by the bulb.
type ReplyError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("bulb error %d: %s", e.Code, e.Message)
}

type wireReply struct {
	ID     *int32            `json:"id"`
	Result []json.RawMessage `json:"result"`
	Error  *ReplyError       `json:"error"`
	Method string            `json:"method"`
	Params map[string]any    `json:"params"`
}

// ParseReply decodes the first line of text returned by an exchange.
func ParseReply(text string) (*Reply, error) {
	line, _, _ := strings.Cut(strings.TrimLeft(text, " \r\n"), "\n")
	line = strings.TrimRight(line, "\r\x00 ")

	var w wireReply
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return nil, fmt.Errorf("parse reply %q: %w", line, err)
	}

	if w.Method == "props" {
		r := &Reply{Props: make(map[string]string, len(w.Params))}
		for k, v := range w.Params {
			r.Props[k] = fmt.Sprint(v)
		}
		return r, nil
	}
	if w.ID == nil {
		return nil, fmt.Errorf("parse reply %q: missing id", line)
	}

	r := &Reply{ID: *w.ID, Err: w.Error}
	if w.Error != nil {
		return r, nil
	}
	if w.Result == nil {
		return nil, fmt.Errorf("parse reply %q: neither result nor error", line)
	}
	r.Result = make([]string, len(w.Result))
	for i, raw := range w.Result {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			r.Result[i] = s
		} else {
			r.Result[i] = string(raw)
		}
	}
	return r, nil
}

// OK reports whether the bulb acknowledged a set command.
func (r *Reply) OK() bool {
	return r.Err == nil && len(r.Result) == 1 && r.Result[0] == "ok"
}

// IsNotification reports whether the line was an unsolicited props update.
func (r *Reply) IsNotification() bool {
	return r.Props != nil
}

// PropValues pairs a get_prop result with the properties that were asked
// for. Missing trailing values are left out.
func (r *Reply) PropValues(props []Property) map[Property]string {
	values := make(map[Property]string, len(props))
	for i, p := range props {
		if i >= len(r.Result) {
			break
		}
		values[p] = r.Result[i]
	}
	return values
}
