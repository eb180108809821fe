package communication_test

import (
	"encoding/json"
	"sync"

	"disp32x8-server/internal/infra/mqtt"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte { return m.payload }
func (m *fakeMessage) Ack() {}

type published struct {
	Topic   string
	Payload []byte
}

// fakeMQTTClient delivers published messages to local subscribers and
// lets tests react to outgoing requests through onPublish.
type fakeMQTTClient struct {
	mu            sync.Mutex
	subscriptions map[string]mqtt.MessageHandler
	published     []published
	publishErr    error
	onPublish     func(topic string, payload []byte)
}

func newFakeMQTTClient() *fakeMQTTClient {
	return &fakeMQTTClient{subscriptions: make(map[string]mqtt.MessageHandler)}
}

func (c *fakeMQTTClient) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[topic] = callback
	return nil
}

func (c *fakeMQTTClient) Publish(topic string, msg any) error {
	if c.publishErr != nil {
		return c.publishErr
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.published = append(c.published, published{Topic: topic, Payload: payload})
	hook := c.onPublish
	c.mu.Unlock()

	if hook != nil {
		go hook(topic, payload)
	}
	return nil
}

func (c *fakeMQTTClient) Disconnect() {}

// deliver simulates an inbound message on topic.
func (c *fakeMQTTClient) deliver(topic string, payload []byte) {
	c.mu.Lock()
	handler, ok := c.subscriptions[topic]
	c.mu.Unlock()
	if ok {
		handler(c, &fakeMessage{topic: topic, payload: payload})
	}
}

func (c *fakeMQTTClient) Published() []published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]published(nil), c.published...)
}
