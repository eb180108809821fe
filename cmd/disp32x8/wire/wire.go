//go:build wireinject
// +build wireinject

package wire

import (
	"disp32x8-server/cmd/config"
	"disp32x8-server/internal/display/board"
	"disp32x8-server/internal/display/communication"
	"disp32x8-server/internal/display/httpapi"
	"disp32x8-server/internal/display/usecases"
	"disp32x8-server/internal/infra/httpserver"
	"disp32x8-server/internal/infra/mqtt"

	"github.com/google/wire"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		provideAppConfig,
		provideMQTTClient,
		wire.Bind(new(mqtt.Client), new(*mqtt.SimpleClient)),
		provideSensorHistoryOpts,
		communication.NewSensorHistoryClient,
		wire.Bind(new(usecases.SensorHistory), new(*communication.SensorHistoryClient)),
		provideBoardDialer,
		wire.Bind(new(usecases.BoardDialer), new(*board.Dialer)),
		provideManagerConfig,
		usecases.NewManager,
		wire.Bind(new(usecases.DisplayService), new(*usecases.Manager)),
		provideCommandTopics,
		communication.NewCommandSubscriber,
		httpapi.NewMessageController,
		provideHTTPServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

func provideMQTTClient(cfg config.AppConfig) (*mqtt.SimpleClient, error) {
	return mqtt.NewSimpleClient(mqtt.SimpleClientOpts{
		Broker:   cfg.MQTTClient.Broker,
		ClientID: cfg.MQTTClient.ClientID,
		Username: cfg.MQTTClient.Username,
		Password: cfg.MQTTClient.Password, //pragma: allowlist secret
	})
}

func provideSensorHistoryOpts(cfg config.AppConfig) communication.SensorHistoryOpts {
	return communication.SensorHistoryOpts{
		RequestTopic:     cfg.Telemetry.RequestTopic,
		ReplyTopicPrefix: cfg.Telemetry.ReplyTopicPrefix,
		ClientID:         cfg.MQTTClient.ClientID,
	}
}

func provideBoardDialer(cfg config.AppConfig) *board.Dialer {
	return board.NewDialer(cfg.Display.AckTimeout)
}

func provideManagerConfig(cfg config.AppConfig) usecases.ManagerConfig {
	return cfg.ManagerConfig()
}

func provideCommandTopics(cfg config.AppConfig) communication.CommandTopics {
	return communication.CommandTopics{
		Commands: cfg.Commands.Topic,
		Results:  cfg.Commands.ResultTopic,
	}
}

func provideHTTPServer(cfg config.AppConfig, messages *httpapi.MessageController) *httpserver.StandardServer {
	return httpserver.NewServer(
		httpserver.ServerOpts{
			Address:        cfg.HTTP.Address,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		},
		messages,
	)
}
