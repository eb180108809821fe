package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"disp32x8-server/internal/display/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	_instrumentationName = "disp32x8_server"
	_resultError         = "error"
)

type displayMetrics struct {
	boardWrites   metric.Int64Counter
	ackLatency    metric.Float64Histogram
	sensorLookups metric.Int64Counter
	commands      metric.Int64Counter
}

func newDisplayMetrics() *displayMetrics {
	meter := otel.Meter(_instrumentationName)
	m := &displayMetrics{}

	var err error
	m.boardWrites, err = meter.Int64Counter(
		fmt.Sprintf("%s.%s", _instrumentationName, "board.writes"),
		metric.WithDescription("Payloads written to display boards by acknowledgment result"),
	)
	if err != nil {
		slog.Warn("creating board writes counter", slog.Any("error", err))
	}

	m.ackLatency, err = meter.Float64Histogram(
		fmt.Sprintf("%s.%s", _instrumentationName, "board.ack.duration.seconds"),
		metric.WithDescription("Time spent waiting for the board acknowledgment"),
		metric.WithUnit("s"),
	)
	if err != nil {
		slog.Warn("creating ack latency histogram", slog.Any("error", err))
	}

	m.sensorLookups, err = meter.Int64Counter(
		fmt.Sprintf("%s.%s", _instrumentationName, "sensor.lookups"),
		metric.WithDescription("Sensor history lookups by result"),
	)
	if err != nil {
		slog.Warn("creating sensor lookups counter", slog.Any("error", err))
	}

	m.commands, err = meter.Int64Counter(
		fmt.Sprintf("%s.%s", _instrumentationName, "commands"),
		metric.WithDescription("Interactive message commands by status"),
	)
	if err != nil {
		slog.Warn("creating commands counter", slog.Any("error", err))
	}

	return m
}

func (m *displayMetrics) recordWrite(ctx context.Context, device domain.Device, status domain.AckStatus, err error, elapsed time.Duration) {
	result := string(status)
	if err != nil {
		result = _resultError
	}
	attrs := metric.WithAttributes(
		attribute.Int("device.id", int(device.ID)),
		attribute.String("result", result),
	)

	if m.boardWrites != nil {
		m.boardWrites.Add(ctx, 1, attrs)
	}
	if m.ackLatency != nil {
		m.ackLatency.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func (m *displayMetrics) recordLookup(ctx context.Context, sensorID domain.SensorID, result string) {
	if m.sensorLookups == nil {
		return
	}
	m.sensorLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("sensor.id", int(sensorID)),
		attribute.String("result", result),
	))
}

func (m *displayMetrics) recordCommand(ctx context.Context, cmd domain.Command, status bool) {
	if m.commands == nil {
		return
	}
	m.commands.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("device.id", int(cmd.DeviceID)),
		attribute.String("position", cmd.Position),
		attribute.Bool("status", status),
	))
}
