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
	"disp32x8-server/internal/infra/mqtt"

	"github.com/google/uuid"
)

var ErrCommandTimeout = errors.New("command result timeout")

func NewCommandPublisher(client mqtt.Client, topics CommandTopics) *CommandPublisher {
	if topics.Commands == "" {
		topics.Commands = _defaultCommandsTopic
	}
	if topics.Results == "" {
		topics.Results = _defaultCommandResultTopic
	}

	return &CommandPublisher{
		client:  client,
		topics:  topics,
		pending: make(map[int]chan internal.CommandResult),
	}
}

// CommandPublisher is the controller side of the command topics: it sends
// a text message command and waits for the result with the same id.
type CommandPublisher struct {
	client mqtt.Client
	topics CommandTopics

	mu      sync.Mutex
	pending map[int]chan internal.CommandResult
}

func (p *CommandPublisher) Subscribe() error {
	if err := p.client.Subscribe(p.topics.Results, _qos, p.onResult); err != nil {
		return fmt.Errorf("subscribing to command results: %w", err)
	}
	return nil
}

// Send publishes cmd and blocks until its result arrives or ctx is done.
// A zero cmd.ID is replaced by a random one.
func (p *CommandPublisher) Send(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	if cmd.ID == 0 {
		cmd.ID = int(uuid.New().ID() >> 1)
	}

	results := make(chan internal.CommandResult, 1)
	p.mu.Lock()
	p.pending[cmd.ID] = results
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.pending, cmd.ID)
		p.mu.Unlock()
	}()

	if err := p.client.Publish(p.topics.Commands, internal.FromDomainCommand(cmd)); err != nil {
		return domain.CommandResult{}, fmt.Errorf("publishing command %d: %w", cmd.ID, err)
	}

	select {
	case <-ctx.Done():
		return domain.CommandResult{}, fmt.Errorf("%w: command %d: %w", ErrCommandTimeout, cmd.ID, ctx.Err())
	case result := <-results:
		return result.ToDomain(), nil
	}
}

func (p *CommandPublisher) onResult(_ mqtt.Client, msg mqtt.Message) {
	var result internal.CommandResult
	if err := json.Unmarshal(msg.Payload(), &result); err != nil {
		slog.Error("decoding command result",
			slog.String("payload", string(msg.Payload())),
			slog.Any("error", err),
		)
		return
	}

	p.mu.Lock()
	results, ok := p.pending[result.CommandID]
	p.mu.Unlock()
	if !ok {
		return
	}

	select {
	case results <- result:
	default:
	}
}
