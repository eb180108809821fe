package domain

import "time"

type Command struct {
	ID       int
	DeviceID DeviceID
	Message  string
	Position string
}

// CommandResult is what the controller gets back. Status true means the
// message was queued for the board, not that the board displayed it.
type CommandResult struct {
	Status bool    `json:"status"`
	Reason *string `json:"reason"`
}

func AcceptedResult() CommandResult {
	return CommandResult{Status: true}
}

func RejectedResult(err error) CommandResult {
	reason := err.Error()
	return CommandResult{Status: false, Reason: &reason}
}

type SensorReading struct {
	SensorID  SensorID
	Status    bool
	Reason    string
	Timestamp time.Time
	Value     string
}

// AckStatus is the outcome of a single board write.
type AckStatus string

const (
	AckReceived AckStatus = "ack"
	AckRejected AckStatus = "nack"
	AckTimeout  AckStatus = "timeout"
)
