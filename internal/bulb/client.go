package bulb

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/denwilliams/go-yeelight-mqtt/internal/config"
	"github.com/denwilliams/go-yeelight-mqtt/internal/logging"
	"github.com/denwilliams/go-yeelight-mqtt/internal/mqtt"
	"github.com/denwilliams/go-yeelight-mqtt/internal/yeelight"
)

const commandTimeout = 30 * time.Second

// NewClient creates a client for every bulb in cfg.
func NewClient(cfg config.Config, emitter StatusEmitter) *Client {
	c := &Client{bulbs: make(bulbMap), emitter: emitter}
	for _, name := range cfg.BulbNames() {
		b, _ := cfg.Bulb(name)
		c.AddBulb(name, b)
	}
	return c
}

type Client struct {
	bulbs   bulbMap
	emitter StatusEmitter
	lastID  atomic.Int32
}

// AddBulb registers a bulb. It must not be called once commands are flowing.
func (c *Client) AddBulb(id string, cfg yeelight.Config) {
	c.bulbs.Set(id, newBulb(id, cfg))
	logging.Info("Added bulb %s at %s", id, cfg.Addr())
}

// nextID returns the next correlation id, staying positive on wrap.
func (c *Client) nextID() int32 {
	id := c.lastID.Add(1)
	if id <= 0 {
		c.lastID.CompareAndSwap(id, 1)
		return 1
	}
	return id
}

// Send assigns cmd a fresh id and runs one exchange with the named bulb.
func (c *Client) Send(ctx context.Context, id string, cmd *yeelight.Command) (*yeelight.Reply, error) {
	b := c.bulbs.Get(id)
	if b == nil {
		return nil, fmt.Errorf("bulb %s not found", id)
	}
	cmd.SetID(c.nextID())
	logging.Debug("Sending %s to %s", describe(cmd), id)
	return b.Exchange(ctx, cmd)
}

func (c *Client) HandleCommand(id string, command *mqtt.Command) error {
	if command == nil {
		return nil
	}

	if !c.bulbs.Has(id) {
		logging.Warn("Bulb %s not found", id)
		return nil
	}

	cmds, props, err := Commands(command)
	if err != nil {
		return fmt.Errorf("bulb %s: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	changed := false
	for _, cmd := range cmds {
		reply, err := c.Send(ctx, id, cmd)
		if err != nil {
			return fmt.Errorf("bulb %s %s: %w", id, cmd.Method(), err)
		}

		switch cmd.Method() {
		case yeelight.MethodGetProp:
			for p, v := range reply.PropValues(props) {
				if err := c.emitter.EmitStatus(ctx, id, p.String(), statusValue(p, v)); err != nil {
					logging.Warn("Failed to emit %s %s: %s", id, p, err)
				}
			}
		case yeelight.MethodSetPower:
			logging.Info("Turning %s %s", id, onOrOff(cmd.Params()[0] == yeelight.StringParam("on")))
			changed = true
		default:
			logging.Info("Set bulb %s %s", id, describe(cmd))
			changed = true
		}
	}

	if changed {
		c.QueueRefresh(id, 0)
	}
	return nil
}

// QueueRefresh re-reads the bulb's properties after duration so retained
// statuses follow the change.
func (c *Client) QueueRefresh(id string, duration time.Duration) {
	b := c.bulbs.Get(id)
	if b == nil {
		return
	}
	b.QueueRefresh(duration, func() {
		c.refresh(b)
	})
}

// RefreshBulbs refreshes every bulb, logging failures.
func (c *Client) RefreshBulbs() {
	for _, b := range c.bulbs {
		c.refresh(b)
	}
}

func (c *Client) refresh(b *bulb) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	b.Refresh(ctx, c.nextID(), c.emitter)
}

// Close stops pending refreshes.
func (c *Client) Close() {
	for _, b := range c.bulbs {
		b.stop()
	}
}
