// Package bridge mirrors the remote's events to an MQTT broker and lets
// the broker set the backlight.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cjeanneret/HexPad/internal/config"
	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/cjeanneret/HexPad/internal/logic/remote"
)

const connectTimeout = 10 * time.Second

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// BrightnessSetter receives backlight levels from the broker.
type BrightnessSetter interface {
	SetBrightness(b int)
}

// Publisher implements remote.Notifier on top of an MQTT client.
type Publisher struct {
	client Client
	topic  string
}

// NewPublisher publishes under topic, e.g. "hexpad/press".
func NewPublisher(c Client, topic string) *Publisher {
	return &Publisher{client: c, topic: strings.TrimSuffix(topic, "/")}
}

// Topic returns the full topic for an event.
func (p *Publisher) Topic(e remote.Event) string {
	if e.Kind == remote.EventBattery {
		return p.topic + "/battery/" + e.Source
	}
	return p.topic + "/" + string(e.Kind)
}

// Notify publishes e as JSON. Battery levels are retained so a new
// subscriber sees the latest estimate. It never waits for the broker.
func (p *Publisher) Notify(e remote.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	t := p.client.Publish(p.Topic(e), 0, e.Kind == remote.EventBattery, payload)
	select {
	case <-t.Done():
		if err := t.Error(); err != nil {
			debug.Trace("mqtt publish %s: %v", p.Topic(e), err)
		}
	default:
	}
}

// SubscribeBrightness routes "<topic>/brightness/set" messages (a decimal
// level) to s.
func (p *Publisher) SubscribeBrightness(s BrightnessSetter) error {
	topic := p.topic + "/brightness/set"
	t := p.client.Subscribe(topic, 0, func(_ mqtt.Client, m mqtt.Message) {
		b, err := ParseBrightness(m.Payload())
		if err != nil {
			debug.Error(fmt.Errorf("mqtt %s: %w", topic, err))
			return
		}
		debug.Live("Brightness from broker: %d", b)
		s.SetBrightness(b)
	})
	if !t.WaitTimeout(connectTimeout) {
		return fmt.Errorf("subscribe %s: timeout", topic)
	}
	return t.Error()
}

// ParseBrightness reads a decimal backlight level between 0 and 255.
func ParseBrightness(payload []byte) (int, error) {
	b, err := strconv.Atoi(strings.TrimSpace(string(payload)))
	if err != nil {
		return 0, fmt.Errorf("brightness: %w", err)
	}
	if b < 0 || b > 255 {
		return 0, errors.New("brightness must be between 0 and 255")
	}
	return b, nil
}

// Connect dials the broker in cfg. The returned function disconnects.
func Connect(cfg config.MQTTConfig) (mqtt.Client, func(), error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		debug.Info("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		debug.Error(fmt.Errorf("mqtt connection lost: %w", err))
	}

	c := mqtt.NewClient(opts)
	t := c.Connect()
	if !t.WaitTimeout(connectTimeout) {
		return nil, nil, fmt.Errorf("mqtt connect %s: timeout", cfg.Broker)
	}
	if err := t.Error(); err != nil {
		return nil, nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return c, func() { c.Disconnect(250) }, nil
}
