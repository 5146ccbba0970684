package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
)

type publisher interface {
	Publish(topic string, payload []byte, retained bool) error
}

// StatusEmitter publishes bulb state as retained messages on
// <baseTopic>/status/<bulb>/<key>.
type StatusEmitter struct {
	pub       publisher
	baseTopic string
}

func NewMqttStatusEmitter(mc *MQTTClient) *StatusEmitter {
	return &StatusEmitter{pub: mc, baseTopic: mc.baseTopic}
}

func (e *StatusEmitter) EmitStatus(ctx context.Context, id string, statusKey string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s status: %w", statusKey, err)
	}
	return e.pub.Publish(e.baseTopic+"/status/"+id+"/"+statusKey, payload, true)
}
