package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/infra/async"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	_defaultOffset       = 3
	_defaultPollInterval = 900 * time.Millisecond
	_defaultClockHoldoff = time.Second

	// no second has been processed yet
	_noSecond = 60
)

var ErrInvalidDriverConfig = errors.New("invalid driver config")

// DriverConfig tunes the display loop. PollInterval trades CPU for latency
// but has to stay below one second or phases get skipped.
type DriverConfig struct {
	Offset       int
	PollInterval time.Duration
	ClockHoldoff time.Duration
}

func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		Offset:       _defaultOffset,
		PollInterval: _defaultPollInterval,
		ClockHoldoff: _defaultClockHoldoff,
	}
}

func (c DriverConfig) Validate() error {
	if c.PollInterval <= 0 || c.PollInterval >= time.Second {
		return fmt.Errorf("%w: poll interval %s must be within (0, 1s)", ErrInvalidDriverConfig, c.PollInterval)
	}
	// the delayed clock re-render lands on 4*offset and must fit in a minute
	if c.Offset < 1 || 4*c.Offset >= 60 {
		return fmt.Errorf("%w: offset %d must be within [1, 14]", ErrInvalidDriverConfig, c.Offset)
	}
	if c.ClockHoldoff < 0 {
		return fmt.Errorf("%w: negative clock holdoff", ErrInvalidDriverConfig)
	}
	return nil
}

func NewDriver(device domain.Device, board Board, sensors SensorReader, config DriverConfig) *Driver {
	return &Driver{
		device:     device,
		board:      board,
		sensors:    sensors,
		config:     config,
		schedule:   newSchedule(config.Offset),
		lastSecond: _noSecond,
		now:        time.Now,
		metrics:    newDisplayMetrics(),
	}
}

var _ async.Worker = (*Driver)(nil)

// Driver runs the display loop of one board.
type Driver struct {
	device     domain.Device
	board      Board
	sensors    SensorReader
	mailbox    Mailbox
	config     DriverConfig
	schedule   *schedule
	lastSecond int
	now        func() time.Time
	metrics    *displayMetrics
	closeOnce  sync.Once
}

func (d *Driver) Device() domain.Device {
	return d.device
}

// Post queues payload for the next loop iteration and reports whether an
// undelivered message was overwritten.
func (d *Driver) Post(payload string) bool {
	return d.mailbox.Put(payload)
}

func (d *Driver) Run(ctx context.Context, done func()) {
	defer done()
	defer d.Shutdown()

	slog.Info("display loop started",
		slog.Int("device_id", int(d.device.ID)),
		slog.String("device", d.device.Name),
		slog.String("endpoint", d.device.Endpoint()),
	)

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		d.tick(ctx, d.now())

		select {
		case <-ctx.Done():
			slog.Info("display loop cancelled", slog.Int("device_id", int(d.device.ID)))
			return
		case <-ticker.C:
		}
	}
}

// Shutdown closes the board session. It is safe to call more than once.
func (d *Driver) Shutdown() {
	d.closeOnce.Do(func() {
		if err := d.board.Close(); err != nil {
			slog.Error("closing board session",
				slog.Int("device_id", int(d.device.ID)),
				slog.Any("error", err),
			)
		}
	})
}

func (d *Driver) tick(ctx context.Context, now time.Time) {
	second := now.Second()
	if second == d.lastSecond {
		return
	}
	d.lastSecond = second

	for _, phase := range periodicPhases {
		if d.schedule.due(phase, second) {
			d.runPhase(ctx, phase)
		}
	}

	d.flushPending(ctx)
}

func (d *Driver) runPhase(ctx context.Context, phase Phase) {
	switch phase {
	case PhaseBoardClock:
		slog.Debug("board shows the clock by itself",
			slog.Int("device_id", int(d.device.ID)),
			slog.String("clock", d.now().Format("15:04")),
		)
		sleepContext(ctx, d.config.ClockHoldoff)
	case PhaseIndoorTemperature:
		d.renderTemperature(ctx, d.device.TempIntSensorID)
	case PhaseOutdoorTemperature:
		d.renderTemperature(ctx, d.device.TempExtSensorID)
	case PhaseRain:
		d.schedule.rainDisplayed(d.renderRain(ctx, d.device.RainSensorID))
	case PhaseClock:
		slog.Info("clock re-render", slog.Int("device_id", int(d.device.ID)))
		d.renderClock(ctx)
	}
}

func (d *Driver) flushPending(ctx context.Context) {
	payload, ok := d.mailbox.Take()
	if !ok {
		return
	}

	slog.Info("displaying text message",
		slog.Int("device_id", int(d.device.ID)),
		slog.String("payload", payload),
	)
	d.write(ctx, payload)
	d.renderClock(ctx)
}

func (d *Driver) renderTemperature(ctx context.Context, sensorID domain.SensorID) {
	value, err := d.sensors.LookupSensorValue(ctx, sensorID)
	if err != nil {
		value = domain.TemperaturePlaceholder
	}

	payload := domain.TemperaturePayload(value)
	slog.Info("displaying temperature",
		slog.Int("device_id", int(d.device.ID)),
		slog.Int("sensor_id", int(sensorID)),
		slog.String("payload", payload),
	)
	d.write(ctx, payload)
}

// renderRain reports whether a rain reading was sent to the board.
func (d *Driver) renderRain(ctx context.Context, sensorID domain.SensorID) bool {
	value, err := d.sensors.LookupSensorValue(ctx, sensorID)
	if err != nil {
		return false
	}

	payload, ok := domain.RainPayload(value)
	if !ok {
		return false
	}

	slog.Info("displaying rainfall",
		slog.Int("device_id", int(d.device.ID)),
		slog.Int("sensor_id", int(sensorID)),
		slog.String("payload", payload),
	)
	d.write(ctx, payload)
	return true
}

func (d *Driver) renderClock(ctx context.Context) {
	d.write(ctx, domain.ClockPayload(d.now()))
}

// write never fails the loop: faults are logged and counted.
func (d *Driver) write(ctx context.Context, payload string) {
	ctx, span := otel.Tracer(_instrumentationName).Start(ctx, "board.write",
		trace.WithAttributes(
			attribute.Int("device.id", int(d.device.ID)),
			attribute.String("payload", payload),
		),
	)
	defer span.End()

	started := time.Now()
	status, err := d.board.Write(ctx, payload)
	d.metrics.recordWrite(ctx, d.device, status, err, time.Since(started))

	if err != nil {
		span.RecordError(err)
		slog.Error("writing to board",
			slog.Int("device_id", int(d.device.ID)),
			slog.String("payload", payload),
			slog.Any("error", err),
		)
		return
	}

	span.SetAttributes(attribute.String("ack", string(status)))
	switch status {
	case domain.AckReceived:
		slog.Debug("ack received from board", slog.Int("device_id", int(d.device.ID)))
	case domain.AckRejected:
		slog.Warn("board answered without ack",
			slog.Int("device_id", int(d.device.ID)),
			slog.String("payload", payload),
		)
	case domain.AckTimeout:
		slog.Warn("timeout waiting for board ack",
			slog.Int("device_id", int(d.device.ID)),
			slog.String("payload", payload),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
