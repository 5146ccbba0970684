package mqtt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/denwilliams/go-yeelight-mqtt/internal/logging"
	pm "github.com/eclipse/paho.mqtt.golang"
)

const (
	qos            = 1
	publishTimeout = 10 * time.Second
)

type MQTTClient struct {
	client    pm.Client
	baseTopic string
}

// NewMQTTClient prepares a client for the broker at uri. Commands are read
// from <baseTopic>/set/<bulb> and statuses written below <baseTopic>/status.
func NewMQTTClient(uri *url.URL, baseTopic string) *MQTTClient {
	opts := pm.NewClientOptions().
		AddBroker(uri.String()).
		SetClientID("yeelight_mqtt_" + uniuri.New()).
		SetAutoReconnect(true).
		SetOnConnectHandler(onConnectHandler).
		SetConnectionLostHandler(onConnectionLostHandler)
	if uri.User != nil {
		opts.SetUsername(uri.User.Username())
		if pw, ok := uri.User.Password(); ok {
			opts.SetPassword(pw)
		}
	}

	return &MQTTClient{client: pm.NewClient(opts), baseTopic: strings.Trim(baseTopic, "/")}
}

func (mc *MQTTClient) subscribeTopic() string {
	return mc.baseTopic + "/set/#"
}

func (mc *MQTTClient) Publish(topic string, payload []byte, retained bool) error {
	token := mc.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// Connect connects to the broker and dispatches every command message to h
// on its own goroutine.
func (mc *MQTTClient) Connect(h CommandHandler) error {
	if token := mc.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to mqtt: %w", token.Error())
	}

	prefix := mc.baseTopic + "/set/"

	messageHandler := func(client pm.Client, msg pm.Message) {
		id, ok := bulbID(prefix, msg.Topic())
		if !ok {
			return
		}

		bytes := msg.Payload()
		payload, err := parsePayload(bytes)
		if err != nil {
			logging.Warn("Error unmarshalling JSON: %s %v", err, string(bytes))
			return
		}
		logging.Debug("Received message on topic %s: %s", id, payload.String())

		go func() {
			if err := h.HandleCommand(id, payload); err != nil {
				logging.Error("Command for %s failed: %s", id, err)
			}
		}()
	}

	if token := mc.client.Subscribe(mc.subscribeTopic(), qos, messageHandler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", mc.subscribeTopic(), token.Error())
	}
	logging.Info("Subscribed to %s", mc.subscribeTopic())
	return nil
}

func (mc *MQTTClient) Disconnect() {
	logging.Info("Disconnecting from MQTT")

	if token := mc.client.Unsubscribe(mc.subscribeTopic()); token.Wait() && token.Error() != nil {
		logging.Warn("Unable to unsubscribe from %s: %s", mc.subscribeTopic(), token.Error())
	}

	mc.client.Disconnect(250)
}

// bulbID extracts the bulb name from a command topic. Nested topics are
// ignored.
func bulbID(prefix, topic string) (string, bool) {
	if !strings.HasPrefix(topic, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(topic, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// parsePayload accepts a JSON object or a JSON string holding one.
func parsePayload(bytes []byte) (*Command, error) {
	var payload Command
	if err := json.Unmarshal(bytes, &payload); err == nil {
		return &payload, nil
	}

	var passOne string
	if err := json.Unmarshal(bytes, &passOne); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(passOne), &payload); err != nil {
		return nil, err
	}

	return &payload, nil
}

func onConnectHandler(c pm.Client) {
	logging.Info("Connected to MQTT")
}

func onConnectionLostHandler(c pm.Client, err error) {
	logging.Error("Lost MQTT connection, reconnecting: %s", err)
}
