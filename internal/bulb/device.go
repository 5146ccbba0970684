package bulb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/denwilliams/go-yeelight-mqtt/internal/logging"
	"github.com/denwilliams/go-yeelight-mqtt/internal/yeelight"
)

func newBulb(id string, cfg yeelight.Config) *bulb {
	return &bulb{
		id:     id,
		dialer: yeelight.NewDialer(cfg),
		exchanger: &yeelight.Exchanger{
			Logger:   logging.Sink{},
			Observer: observeExchange,
		},
		props: make(map[yeelight.Property]string),
	}
}

// bulb serialises exchanges: the protocol correlates replies by line order
// on a connection, so only one command may be in flight at a time.
type bulb struct {
	id        string
	dialer    *yeelight.Dialer
	exchanger *yeelight.Exchanger

	mu    sync.Mutex
	props map[yeelight.Property]string

	timerMu sync.Mutex
	timer   *time.Timer
}

// Exchange sends cmd on a fresh connection and parses the reply.
func (b *bulb) Exchange(ctx context.Context, cmd *yeelight.Command) (*yeelight.Reply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.exchange(ctx, cmd)
}

func (b *bulb) exchange(ctx context.Context, cmd *yeelight.Command) (*yeelight.Reply, error) {
	conn, err := b.dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		limit := b.dialer.Config.IOTimeout
		if limit == 0 || time.Until(deadline) < limit {
			if err := conn.SetDeadline(deadline); err != nil {
				return nil, err
			}
		}
	}

	text, err := b.exchanger.Send(cmd, conn)
	if err != nil {
		return nil, err
	}

	reply, err := yeelight.ParseReply(text)
	if err != nil {
		return nil, err
	}
	if reply.IsNotification() {
		return nil, fmt.Errorf("expected reply to %s, got notification", cmd.Method())
	}
	if reply.ID != cmd.ID() {
		return nil, fmt.Errorf("reply id %d does not match command id %d", reply.ID, cmd.ID())
	}
	if reply.Err != nil {
		bulbErrors.WithLabelValues(b.id, string(cmd.Method())).Inc()
		return reply, reply.Err
	}
	return reply, nil
}

// Refresh reads every property and emits the ones that changed since the
// last refresh.
func (b *bulb) Refresh(ctx context.Context, id int32, emitter StatusEmitter) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	logging.Debug("Refreshing %s", b.id)

	props := yeelight.Properties()
	reply, err := b.exchange(ctx, yeelight.NewGetProp(id, props...))
	if err != nil {
		logging.Warn("Failed to refresh %s: %s", b.id, err)
		return err
	}

	for p, v := range reply.PropValues(props) {
		if old, ok := b.props[p]; ok && old == v {
			continue
		}
		b.props[p] = v
		if err := emitter.EmitStatus(ctx, b.id, p.String(), statusValue(p, v)); err != nil {
			logging.Warn("Failed to emit %s %s: %s", b.id, p, err)
		}
	}
	logging.Debug("Refreshed %s props=%v", b.id, b.props)
	return nil
}

// QueueRefresh schedules a refresh, replacing any pending one.
func (b *bulb) QueueRefresh(duration time.Duration, refresh func()) {
	b.timerMu.Lock()
	defer b.timerMu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	if duration == 0 {
		duration = 1 * time.Second
	}
	b.timer = time.AfterFunc(duration, refresh)
}

func (b *bulb) stop() {
	b.timerMu.Lock()
	defer b.timerMu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
}
