package internal

import "disp32x8-server/internal/display/domain"

// Command is the client.cmd payload sent by the controller.
type Command struct {
	CommandID int    `json:"command_id"`
	DeviceID  int    `json:"device_id"`
	Message   string `json:"message"`
	Position  string `json:"position"`
}

func (c Command) ToDomain() domain.Command {
	return domain.Command{
		ID:       c.CommandID,
		DeviceID: domain.DeviceID(c.DeviceID),
		Message:  c.Message,
		Position: c.Position,
	}
}

type CommandResult struct {
	CommandID int     `json:"command_id"`
	Status    bool    `json:"status"`
	Reason    *string `json:"reason"`
}

func FromCommandResult(commandID int, result domain.CommandResult) CommandResult {
	return CommandResult{
		CommandID: commandID,
		Status:    result.Status,
		Reason:    result.Reason,
	}
}

func FromDomainCommand(cmd domain.Command) Command {
	return Command{
		CommandID: cmd.ID,
		DeviceID:  int(cmd.DeviceID),
		Message:   cmd.Message,
		Position:  cmd.Position,
	}
}

func (r CommandResult) ToDomain() domain.CommandResult {
	return domain.CommandResult{
		Status: r.Status,
		Reason: r.Reason,
	}
}
