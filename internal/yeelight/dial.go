package yeelight

import (
	"context"
	"net"
	"strconv"
	"time"
)

// DefaultPort is the bulb's LAN control port.
const DefaultPort = 55443

// Config locates one bulb.
type Config struct {
	Host string
	Port int
	// DialTimeout bounds connection setup; zero means no limit.
	DialTimeout time.Duration
	// IOTimeout, when set, becomes the read/write deadline of the connection.
	IOTimeout time.Duration
}

// Addr returns host:port, falling back to DefaultPort.
func (c Config) Addr() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// Dialer opens connections to a bulb. Callers own and close the returned
// connection.
type Dialer struct {
	Config Config
	dial   func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewDialer(cfg Config) *Dialer {
	d := &net.Dialer{Timeout: cfg.DialTimeout}
	return &Dialer{Config: cfg, dial: d.DialContext}
}

func (d *Dialer) Dial(ctx context.Context) (net.Conn, error) {
	conn, err := d.dial(ctx, "tcp", d.Config.Addr())
	if err != nil {
		return nil, &ProtocolError{Kind: TransportError, Op: "dial", Err: err}
	}
	if d.Config.IOTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(d.Config.IOTimeout)); err != nil {
			conn.Close()
			return nil, &ProtocolError{Kind: TransportError, Op: "dial", Err: err}
		}
	}
	return conn, nil
}
