package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"disp32x8-server/internal/display/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	_defaultLookupTimeout = 10 * time.Second
	_defaultStaleness     = time.Hour
)

var (
	ErrSensorValueFailed = errors.New("sensor value failed")
	ErrUnknownDevice     = errors.New("unknown device")
	ErrAlreadyStarted    = errors.New("manager already started")
	ErrDuplicatedDevice  = errors.New("duplicated device")
)

type ManagerConfig struct {
	Driver        DriverConfig
	LookupTimeout time.Duration
	Staleness     time.Duration
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Driver:        DefaultDriverConfig(),
		LookupTimeout: _defaultLookupTimeout,
		Staleness:     _defaultStaleness,
	}
}

func NewManager(dialer BoardDialer, history SensorHistory, config ManagerConfig) *Manager {
	return &Manager{
		dialer:  dialer,
		history: history,
		config:  config,
		drivers: make(map[domain.DeviceID]*Driver),
		metrics: newDisplayMetrics(),
	}
}

var (
	_ DisplayService = (*Manager)(nil)
	_ SensorReader   = (*Manager)(nil)
)

// Manager owns one Driver per configured board and routes commands to them.
type Manager struct {
	dialer  BoardDialer
	history SensorHistory
	config  ManagerConfig
	metrics *displayMetrics

	mu      sync.RWMutex
	started bool
	devices []domain.Device
	drivers map[domain.DeviceID]*Driver
	wg      sync.WaitGroup
}

// Start opens a board session per device and launches the display loops.
// If any session cannot be opened no loop is started.
func (m *Manager) Start(ctx context.Context, devices []domain.Device) error {
	if err := m.config.Driver.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}

	drivers := make([]*Driver, 0, len(devices))
	seen := make(map[domain.DeviceID]bool, len(devices))
	for _, device := range devices {
		if seen[device.ID] {
			for _, driver := range drivers {
				driver.Shutdown()
			}
			return fmt.Errorf("%w: %d", ErrDuplicatedDevice, device.ID)
		}
		seen[device.ID] = true

		slog.Info("opening board session",
			slog.Int("device_id", int(device.ID)),
			slog.String("device", device.Name),
			slog.String("endpoint", device.Endpoint()),
			slog.Int("temp_int_sensor_id", int(device.TempIntSensorID)),
			slog.Int("temp_ext_sensor_id", int(device.TempExtSensorID)),
			slog.Int("rain_sensor_id", int(device.RainSensorID)),
		)

		board, err := m.dialer.Dial(device)
		if err != nil {
			slog.Error("failed to open board session",
				slog.Int("device_id", int(device.ID)),
				slog.Any("error", err),
			)
			for _, driver := range drivers {
				driver.Shutdown()
			}
			return fmt.Errorf("dialing board %d: %w", device.ID, err)
		}

		drivers = append(drivers, NewDriver(device, board, m, m.config.Driver))
	}

	for _, driver := range drivers {
		m.drivers[driver.device.ID] = driver
		m.devices = append(m.devices, driver.device)

		m.wg.Add(1)
		go driver.Run(ctx, m.wg.Done)
	}
	m.started = true

	return nil
}

// Wait blocks until every display loop has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) Devices() []domain.Device {
	m.mu.RLock()
	defer m.mu.RUnlock()

	devices := make([]domain.Device, len(m.devices))
	copy(devices, m.devices)
	return devices
}

// OnCommand queues a text message on the board of cmd.DeviceID. A
// successful result means queued; an earlier undelivered message is
// replaced.
func (m *Manager) OnCommand(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	ctx, span := otel.Tracer(_instrumentationName).Start(ctx, "command.handle",
		trace.WithAttributes(
			attribute.Int("device.id", int(cmd.DeviceID)),
			attribute.String("position", cmd.Position),
		),
	)
	defer span.End()

	result, err := m.queue(cmd)
	m.metrics.recordCommand(ctx, cmd, result.Status)
	if err != nil {
		span.RecordError(err)
		slog.Error("rejecting command",
			slog.Int("command_id", cmd.ID),
			slog.Int("device_id", int(cmd.DeviceID)),
			slog.String("position", cmd.Position),
			slog.Any("error", err),
		)
	}

	return result, err
}

func (m *Manager) queue(cmd domain.Command) (domain.CommandResult, error) {
	m.mu.RLock()
	driver, ok := m.drivers[cmd.DeviceID]
	m.mu.RUnlock()
	if !ok {
		err := fmt.Errorf("%w: %d", ErrUnknownDevice, cmd.DeviceID)
		return domain.RejectedResult(err), err
	}

	position, err := domain.ParsePosition(cmd.Position)
	if err != nil {
		return domain.RejectedResult(err), err
	}

	payload := domain.MessagePayload(cmd.Message, position)
	if replaced := driver.Post(payload); replaced {
		slog.Warn("pending message replaced before display", slog.Int("device_id", int(cmd.DeviceID)))
	}
	slog.Info("message queued",
		slog.Int("command_id", cmd.ID),
		slog.Int("device_id", int(cmd.DeviceID)),
		slog.String("payload", payload),
	)

	return domain.AcceptedResult(), nil
}

// LookupSensorValue returns the last value of a sensor, or
// ErrSensorValueFailed when the reading is missing, failed or stale.
func (m *Manager) LookupSensorValue(ctx context.Context, sensorID domain.SensorID) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.config.LookupTimeout)
	defer cancel()

	reading, err := m.history.LastValue(ctx, sensorID)
	if err != nil {
		slog.Error("requesting last sensor value",
			slog.Int("sensor_id", int(sensorID)),
			slog.Any("error", err),
		)
		m.metrics.recordLookup(ctx, sensorID, _resultError)
		return "", ErrSensorValueFailed
	}

	if !reading.Status {
		slog.Info("sensor history status is false",
			slog.Int("sensor_id", int(sensorID)),
			slog.String("reason", reading.Reason),
		)
		m.metrics.recordLookup(ctx, sensorID, "status_false")
		return "", ErrSensorValueFailed
	}

	if time.Since(reading.Timestamp) > m.config.Staleness {
		slog.Info("sensor value too old",
			slog.Int("sensor_id", int(sensorID)),
			slog.Time("timestamp", reading.Timestamp),
		)
		m.metrics.recordLookup(ctx, sensorID, "stale")
		return "", ErrSensorValueFailed
	}

	slog.Info("last sensor value",
		slog.Int("sensor_id", int(sensorID)),
		slog.String("value", reading.Value),
		slog.Time("timestamp", reading.Timestamp),
	)
	m.metrics.recordLookup(ctx, sensorID, "ok")
	return reading.Value, nil
}
