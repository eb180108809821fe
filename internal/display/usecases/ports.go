package usecases

import (
	"context"

	"disp32x8-server/internal/display/domain"
)

//go:generate mockgen -source=ports.go -destination=../../../test/unit/doubles/display/usecases/ports_mock.go -package=usecases -mock_names=Board=MockBoard,BoardDialer=MockBoardDialer,SensorHistory=MockSensorHistory,SensorReader=MockSensorReader,DisplayService=MockDisplayService

// Board is an open session with one display board.
type Board interface {
	Write(ctx context.Context, payload string) (domain.AckStatus, error)
	Close() error
}

type BoardDialer interface {
	Dial(device domain.Device) (Board, error)
}

// SensorHistory asks the telemetry collaborator for the last reading of a sensor.
type SensorHistory interface {
	LastValue(ctx context.Context, sensorID domain.SensorID) (domain.SensorReading, error)
}

type SensorReader interface {
	LookupSensorValue(ctx context.Context, sensorID domain.SensorID) (string, error)
}

// DisplayService is what inbound adapters (MQTT, HTTP) use to reach the boards.
type DisplayService interface {
	OnCommand(ctx context.Context, cmd domain.Command) (domain.CommandResult, error)
	Devices() []domain.Device
}
