package communication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"disp32x8-server/internal/display/communication/internal"
	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/display/usecases"
	"disp32x8-server/internal/infra/mqtt"

	"github.com/google/uuid"
)

const (
	_defaultSensorHistoryTopic = "sensor_history/get"
	_defaultReplyTopicPrefix   = "disp32x8/sensor_history"
)

var ErrRequestTimeout = errors.New("sensor history request timeout")

type SensorHistoryOpts struct {
	RequestTopic     string
	ReplyTopicPrefix string
	ClientID         string
}

func NewSensorHistoryClient(client mqtt.Client, opts SensorHistoryOpts) *SensorHistoryClient {
	if opts.RequestTopic == "" {
		opts.RequestTopic = _defaultSensorHistoryTopic
	}
	if opts.ReplyTopicPrefix == "" {
		opts.ReplyTopicPrefix = _defaultReplyTopicPrefix
	}

	return &SensorHistoryClient{
		client:       client,
		requestTopic: opts.RequestTopic,
		replyTopic:   fmt.Sprintf("%s/%s", opts.ReplyTopicPrefix, opts.ClientID),
		pending:      make(map[string]chan internal.SensorHistoryReply),
	}
}

var _ usecases.SensorHistory = (*SensorHistoryClient)(nil)

// SensorHistoryClient runs sensor_history.get requests over MQTT. Replies
// come back on a per-client topic and are matched by request id.
type SensorHistoryClient struct {
	client       mqtt.Client
	requestTopic string
	replyTopic   string

	mu      sync.Mutex
	pending map[string]chan internal.SensorHistoryReply
}

// Subscribe starts listening on the reply topic. It must be called before LastValue.
func (c *SensorHistoryClient) Subscribe() error {
	if err := c.client.Subscribe(c.replyTopic, _qos, c.onReply); err != nil {
		return fmt.Errorf("subscribing to sensor history replies: %w", err)
	}
	return nil
}

func (c *SensorHistoryClient) LastValue(ctx context.Context, sensorID domain.SensorID) (domain.SensorReading, error) {
	requestID := uuid.NewString()
	replies := make(chan internal.SensorHistoryReply, 1)

	c.mu.Lock()
	c.pending[requestID] = replies
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, requestID)
		c.mu.Unlock()
	}()

	request := internal.SensorHistoryRequest{
		RequestID: requestID,
		ReplyTo:   c.replyTopic,
		SensorID:  int(sensorID),
		Mode:      internal.ModeLast,
	}
	if err := c.client.Publish(c.requestTopic, request); err != nil {
		return domain.SensorReading{}, fmt.Errorf("publishing sensor history request: %w", err)
	}

	select {
	case <-ctx.Done():
		return domain.SensorReading{}, fmt.Errorf("%w: sensor %d: %w", ErrRequestTimeout, sensorID, ctx.Err())
	case reply := <-replies:
		reading, err := reply.ToDomain()
		if err != nil {
			return domain.SensorReading{}, fmt.Errorf("sensor %d: %w", sensorID, err)
		}
		return reading, nil
	}
}

func (c *SensorHistoryClient) onReply(_ mqtt.Client, msg mqtt.Message) {
	var reply internal.SensorHistoryReply
	if err := json.Unmarshal(msg.Payload(), &reply); err != nil {
		slog.Error("decoding sensor history reply",
			slog.String("payload", string(msg.Payload())),
			slog.Any("error", err),
		)
		return
	}

	c.mu.Lock()
	replies, ok := c.pending[reply.RequestID]
	c.mu.Unlock()
	if !ok {
		slog.Debug("sensor history reply without pending request", slog.String("request_id", reply.RequestID))
		return
	}

	select {
	case replies <- reply:
	default:
		slog.Warn("duplicated sensor history reply", slog.String("request_id", reply.RequestID))
	}
}
