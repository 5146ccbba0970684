package yeelight

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, "192.168.1.83:55443", Config{Host: "192.168.1.83"}.Addr())
	assert.Equal(t, "bulb.local:1234", Config{Host: "bulb.local", Port: 1234}.Addr())
	assert.Equal(t, "[::1]:55443", Config{Host: "::1"}.Addr())
}

func TestDialerExchange(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 1024)
		if _, err := c.Read(buf); err != nil {
			return
		}
		c.Write([]byte("{\"id\":3,\"result\":[\"ok\"]}\r\n"))
	}()

	addr := l.Addr().(*net.TCPAddr)
	d := NewDialer(Config{Host: "127.0.0.1", Port: addr.Port, DialTimeout: time.Second, IOTimeout: 2 * time.Second})
	conn, err := d.Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	reply, err := Send(NewToggle(3), conn)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":3,\"result\":[\"ok\"]}\r\n", reply)
}

func TestDialerRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	_, err = NewDialer(Config{Host: "127.0.0.1", Port: port, DialTimeout: time.Second}).Dial(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}
