package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/display/usecases"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const _configFlag = "config"

var ErrInvalidConfig = errors.New("invalid config")

var loadConfigOnce sync.Once
var configInstance AppConfig

// RegisterFlags adds the --config flag to fs and binds it so LoadConfig can
// pick an explicit file instead of searching the default paths.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(_configFlag, "", "path to the configuration file")
	if err := viper.BindPFlag(_configFlag, fs.Lookup(_configFlag)); err != nil {
		panic(err)
	}
}

func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("disp32x8")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if path := viper.GetString(_configFlag); path != "" {
			viper.SetConfigFile(path)
		} else {
			viper.SetConfigName("disp32x8")
			viper.AddConfigPath("config")
			viper.AddConfigPath("/config")
		}
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}

		config, err := fromViper(viper.GetViper())
		if err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = config
	})

	return configInstance
}

func setDefaults(v *viper.Viper) {
	defaults := usecases.DefaultManagerConfig()

	v.SetDefault("general.log_level", "info")
	v.SetDefault("http.address", ":3000")
	v.SetDefault("otel.endpoint", "localhost:4317")
	v.SetDefault("otel.enabled", true)
	v.SetDefault("display.offset_seconds", defaults.Driver.Offset)
	v.SetDefault("display.poll_interval", defaults.Driver.PollInterval)
	v.SetDefault("display.clock_holdoff", defaults.Driver.ClockHoldoff)
	v.SetDefault("display.ack_timeout", 20*time.Second)
	v.SetDefault("telemetry.request_topic", "sensor_history/get")
	v.SetDefault("telemetry.reply_topic_prefix", "disp32x8/sensor_history")
	v.SetDefault("telemetry.timeout", defaults.LookupTimeout)
	v.SetDefault("telemetry.staleness", defaults.Staleness)
	v.SetDefault("commands.topic", "disp32x8/commands")
	v.SetDefault("commands.result_topic", "disp32x8/commands/result")
}

func fromViper(v *viper.Viper) (AppConfig, error) {
	setDefaults(v)

	var devices []DeviceConfig
	if err := v.UnmarshalKey("devices", &devices); err != nil {
		return AppConfig{}, fmt.Errorf("decoding devices: %w", err)
	}

	config := AppConfig{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
		},
		MQTTClient: MQTTClientConfig{
			Broker:   v.GetString("mqtt_client.broker"),
			ClientID: v.GetString("mqtt_client.client_id"),
			Username: v.GetString("mqtt_client.username"),
			Password: v.GetString("mqtt_client.password"),
		},
		HTTP: HTTPConfig{
			Address:        v.GetString("http.address"),
			AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
		},
		OTel: OTelConfig{
			Endpoint: v.GetString("otel.endpoint"),
			Enabled:  v.GetBool("otel.enabled"),
		},
		Display: DisplayConfig{
			OffsetSeconds: v.GetInt("display.offset_seconds"),
			PollInterval:  v.GetDuration("display.poll_interval"),
			AckTimeout:    v.GetDuration("display.ack_timeout"),
			ClockHoldoff:  v.GetDuration("display.clock_holdoff"),
		},
		Telemetry: TelemetryConfig{
			RequestTopic:     v.GetString("telemetry.request_topic"),
			ReplyTopicPrefix: v.GetString("telemetry.reply_topic_prefix"),
			Timeout:          v.GetDuration("telemetry.timeout"),
			Staleness:        v.GetDuration("telemetry.staleness"),
		},
		Commands: CommandsConfig{
			Topic:       v.GetString("commands.topic"),
			ResultTopic: v.GetString("commands.result_topic"),
		},
		Devices: devices,
	}

	return config, config.Validate()
}

type AppConfig struct {
	General    GeneralConfig
	MQTTClient MQTTClientConfig
	HTTP       HTTPConfig
	OTel       OTelConfig
	Display    DisplayConfig
	Telemetry  TelemetryConfig
	Commands   CommandsConfig
	Devices    []DeviceConfig
}

type GeneralConfig struct {
	LogLevel string
}

type MQTTClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

type HTTPConfig struct {
	Address        string
	AllowedOrigins []string
}

type OTelConfig struct {
	Endpoint string
	Enabled  bool
}

type DisplayConfig struct {
	OffsetSeconds int
	PollInterval  time.Duration
	AckTimeout    time.Duration
	ClockHoldoff  time.Duration
}

type TelemetryConfig struct {
	RequestTopic     string
	ReplyTopicPrefix string
	Timeout          time.Duration
	Staleness        time.Duration
}

type CommandsConfig struct {
	Topic       string
	ResultTopic string
}

type DeviceConfig struct {
	ID              int    `mapstructure:"id"`
	Name            string `mapstructure:"name"`
	DisplayIP       string `mapstructure:"display_ip"`
	DisplayPort     int    `mapstructure:"display_port"`
	TempIntSensorID int    `mapstructure:"temp_int_sensor_id"`
	TempExtSensorID int    `mapstructure:"temp_ext_sensor_id"`
	RainSensorID    int    `mapstructure:"rain_sensor_id"`
}

func (c AppConfig) Validate() error {
	if c.MQTTClient.Broker == "" {
		return fmt.Errorf("%w: mqtt_client.broker is required", ErrInvalidConfig)
	}
	if err := c.ManagerConfig().Driver.Validate(); err != nil {
		return fmt.Errorf("%w: display: %w", ErrInvalidConfig, err)
	}
	if c.Display.AckTimeout <= 0 {
		return fmt.Errorf("%w: display.ack_timeout must be positive", ErrInvalidConfig)
	}
	if c.Telemetry.Timeout <= 0 || c.Telemetry.Staleness <= 0 {
		return fmt.Errorf("%w: telemetry timeout and staleness must be positive", ErrInvalidConfig)
	}
	if len(c.Devices) == 0 {
		return fmt.Errorf("%w: at least one device is required", ErrInvalidConfig)
	}

	seen := make(map[int]bool, len(c.Devices))
	for _, d := range c.Devices {
		if seen[d.ID] {
			return fmt.Errorf("%w: device %d is configured twice", ErrInvalidConfig, d.ID)
		}
		seen[d.ID] = true

		if d.DisplayIP == "" {
			return fmt.Errorf("%w: device %d has no display_ip", ErrInvalidConfig, d.ID)
		}
		if d.DisplayPort <= 0 || d.DisplayPort > 65535 {
			return fmt.Errorf("%w: device %d has an invalid display_port %d", ErrInvalidConfig, d.ID, d.DisplayPort)
		}
	}

	return nil
}

func (c AppConfig) ManagerConfig() usecases.ManagerConfig {
	return usecases.ManagerConfig{
		Driver: usecases.DriverConfig{
			Offset:       c.Display.OffsetSeconds,
			PollInterval: c.Display.PollInterval,
			ClockHoldoff: c.Display.ClockHoldoff,
		},
		LookupTimeout: c.Telemetry.Timeout,
		Staleness:     c.Telemetry.Staleness,
	}
}

func (c AppConfig) ToDevices() []domain.Device {
	devices := make([]domain.Device, 0, len(c.Devices))
	for _, d := range c.Devices {
		devices = append(devices, domain.Device{
			ID:              domain.DeviceID(d.ID),
			Name:            d.Name,
			Address:         d.DisplayIP,
			Port:            d.DisplayPort,
			TempIntSensorID: domain.SensorID(d.TempIntSensorID),
			TempExtSensorID: domain.SensorID(d.TempExtSensorID),
			RainSensorID:    domain.SensorID(d.RainSensorID),
		})
	}
	return devices
}
