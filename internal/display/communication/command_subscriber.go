package communication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"disp32x8-server/internal/display/communication/internal"
	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/display/usecases"
	"disp32x8-server/internal/infra/mqtt"
)

const (
	_defaultCommandsTopic      = "disp32x8/commands"
	_defaultCommandResultTopic = "disp32x8/commands/result"
)

const _qos byte = 0

var ErrMalformedCommand = errors.New("malformed command")

type CommandTopics struct {
	Commands string
	Results  string
}

func NewCommandSubscriber(client mqtt.Client, service usecases.DisplayService, topics CommandTopics) *CommandSubscriber {
	if topics.Commands == "" {
		topics.Commands = _defaultCommandsTopic
	}
	if topics.Results == "" {
		topics.Results = _defaultCommandResultTopic
	}

	return &CommandSubscriber{
		client:  client,
		service: service,
		topics:  topics,
	}
}

// CommandSubscriber receives text message commands from the bus and
// answers each one on the result topic.
type CommandSubscriber struct {
	client  mqtt.Client
	service usecases.DisplayService
	topics  CommandTopics
}

func (s *CommandSubscriber) Subscribe() error {
	if err := s.client.Subscribe(s.topics.Commands, _qos, s.handle); err != nil {
		return fmt.Errorf("subscribing to commands: %w", err)
	}
	return nil
}

func (s *CommandSubscriber) handle(_ mqtt.Client, msg mqtt.Message) {
	ctx := context.Background()

	var cmd internal.Command
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		slog.Error("decoding command",
			slog.String("topic", msg.Topic()),
			slog.String("payload", string(msg.Payload())),
			slog.Any("error", err),
		)
		s.reply(internal.FromCommandResult(0, domain.RejectedResult(ErrMalformedCommand)))
		return
	}

	slog.Info("command received",
		slog.Int("command_id", cmd.CommandID),
		slog.Int("device_id", cmd.DeviceID),
		slog.String("position", cmd.Position),
		slog.String("message", cmd.Message),
	)

	result, err := s.service.OnCommand(ctx, cmd.ToDomain())
	if err != nil {
		slog.Warn("command rejected", slog.Int("command_id", cmd.CommandID), slog.Any("error", err))
	}

	s.reply(internal.FromCommandResult(cmd.CommandID, result))
}

func (s *CommandSubscriber) reply(result internal.CommandResult) {
	if err := s.client.Publish(s.topics.Results, result); err != nil {
		slog.Error("replying to command",
			slog.Int("command_id", result.CommandID),
			slog.Any("error", err),
		)
	}
}
