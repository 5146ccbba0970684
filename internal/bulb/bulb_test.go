package bulb

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/denwilliams/go-yeelight-mqtt/internal/mqtt"
	"github.com/denwilliams/go-yeelight-mqtt/internal/yeelight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	ID     int32         `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// fakeBulb answers one request per connection the way a bulb does.
type fakeBulb struct {
	l     net.Listener
	mu    sync.Mutex
	reqs  []request
	props []string
	fail  string
}

func newFakeBulb(t *testing.T) *fakeBulb {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeBulb{l: l}
	t.Cleanup(func() { l.Close() })
	go f.serve()
	return f
}

func (f *fakeBulb) config() yeelight.Config {
	return yeelight.Config{Host: "127.0.0.1", Port: f.l.Addr().(*net.TCPAddr).Port, IOTimeout: 2 * time.Second}
}

func (f *fakeBulb) serve() {
	for {
		c, err := f.l.Accept()
		if err != nil {
			return
		}
		go f.handle(c)
	}
}

func (f *fakeBulb) handle(c net.Conn) {
	defer c.Close()
	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return
	}
	var req request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return
	}

	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	props, fail := f.props, f.fail
	f.mu.Unlock()

	var reply string
	switch {
	case req.Method == fail:
		reply = fmt.Sprintf(`{"id":%d,"error":{"code":-1,"message":"method not supported"}}`, req.ID)
	case req.Method == "get_prop":
		values := make([]string, len(req.Params))
		copy(values, props)
		b, _ := json.Marshal(values)
		reply = fmt.Sprintf(`{"id":%d,"result":%s}`, req.ID, b)
	default:
		reply = fmt.Sprintf(`{"id":%d,"result":["ok"]}`, req.ID)
	}
	c.Write([]byte(reply + "\r\n"))
}

func (f *fakeBulb) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var m []string
	for _, r := range f.reqs {
		m = append(m, r.Method)
	}
	return m
}

type status struct {
	id, key string
	data    interface{}
}

type recordingEmitter struct {
	mu       sync.Mutex
	statuses []status
}

func (e *recordingEmitter) EmitStatus(_ context.Context, id, key string, data interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statuses = append(e.statuses, status{id, key, data})
	return nil
}

func (e *recordingEmitter) get(key string) (interface{}, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.statuses {
		if s.key == key {
			return s.data, true
		}
	}
	return nil, false
}

func newTestClient(f *fakeBulb, e StatusEmitter) *Client {
	c := &Client{bulbs: make(bulbMap), emitter: e}
	c.AddBulb("desk", f.config())
	return c
}

func intp(v int) *int { return &v }

func TestHandleCommandSendsInOrder(t *testing.T) {
	f := newFakeBulb(t)
	c := newTestClient(f, &recordingEmitter{})
	defer c.Close()

	err := c.HandleCommand("desk", &mqtt.Command{Color: "#ff8000", Brightness: intp(40), Duration: 400})
	require.NoError(t, err)
	assert.Equal(t, []string{"set_power", "set_rgb", "set_bright"}, f.methods())

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []interface{}{float64(0xff8000), "smooth", float64(400)}, f.reqs[1].Params)
	assert.NotEqual(t, f.reqs[0].ID, f.reqs[1].ID)
}

func TestHandleCommandGetPublishes(t *testing.T) {
	f := newFakeBulb(t)
	f.props = []string{"on", "16711680", "2"}
	e := &recordingEmitter{}
	c := newTestClient(f, e)

	require.NoError(t, c.HandleCommand("desk", &mqtt.Command{Get: []string{"power", "rgb", "color_mode"}}))

	v, ok := e.get("power")
	require.True(t, ok)
	assert.Equal(t, "on", v)
	v, _ = e.get("rgb")
	assert.Equal(t, "#ff0000", v)
	v, _ = e.get("color_mode")
	assert.Equal(t, "ct", v)
}

func TestHandleCommandBulbError(t *testing.T) {
	f := newFakeBulb(t)
	f.fail = "set_ct_abx"
	c := newTestClient(f, &recordingEmitter{})

	err := c.HandleCommand("desk", &mqtt.Command{Power: "on", Temperature: 2700})
	require.Error(t, err)
	var re *yeelight.ReplyError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, []string{"set_power", "set_ct_abx"}, f.methods())
}

func TestHandleCommandUnknownBulb(t *testing.T) {
	c := &Client{bulbs: make(bulbMap), emitter: &recordingEmitter{}}
	assert.NoError(t, c.HandleCommand("nope", &mqtt.Command{Power: "toggle"}))
	assert.NoError(t, c.HandleCommand("nope", nil))
	assert.NoError(t, c.HandleCommand("nope", &mqtt.Command{Power: "dim"}))

	c.AddBulb("desk", yeelight.Config{Host: "127.0.0.1"})
	assert.True(t, c.bulbs.Has("desk"))
	assert.False(t, c.bulbs.Has("nope"))
	assert.Error(t, c.HandleCommand("desk", &mqtt.Command{Power: "dim"}))
}

func TestRefreshEmitsChanges(t *testing.T) {
	f := newFakeBulb(t)
	f.props = []string{"on", "80", "4000", "0", "0", "0", "2", "0", "0", "", "0", "lamp"}
	e := &recordingEmitter{}
	c := newTestClient(f, e)
	b := c.bulbs.Get("desk")

	require.NoError(t, b.Refresh(context.Background(), c.nextID(), e))
	assert.Len(t, e.statuses, 12)
	v, _ := e.get("bright")
	assert.Equal(t, 80, v)
	v, _ = e.get("flowing")
	assert.Equal(t, false, v)

	require.NoError(t, b.Refresh(context.Background(), c.nextID(), e))
	assert.Len(t, e.statuses, 12)
}

func TestSendUnreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	c := &Client{bulbs: make(bulbMap), emitter: &recordingEmitter{}}
	c.AddBulb("gone", yeelight.Config{Host: "127.0.0.1", Port: port, DialTimeout: time.Second})
	_, err = c.Send(context.Background(), "gone", yeelight.NewToggle(0))
	assert.ErrorIs(t, err, yeelight.ErrTransport)
	assert.Equal(t, "transport", resultLabel(err))

	_, err = c.Send(context.Background(), "missing", yeelight.NewToggle(0))
	assert.Error(t, err)
}

func TestNextIDWraps(t *testing.T) {
	c := &Client{}
	c.lastID.Store(1<<31 - 1)
	assert.Equal(t, int32(1), c.nextID())
	assert.Equal(t, int32(2), c.nextID())
}
