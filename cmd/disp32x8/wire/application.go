package wire

import (
	"disp32x8-server/cmd/config"
	"disp32x8-server/internal/display/communication"
	"disp32x8-server/internal/display/usecases"
	"disp32x8-server/internal/infra/httpserver"
	"disp32x8-server/internal/infra/mqtt"
)

// Application holds the long lived components main starts and stops.
type Application struct {
	Config        config.AppConfig
	MQTTClient    *mqtt.SimpleClient
	SensorHistory *communication.SensorHistoryClient
	Manager       *usecases.Manager
	Commands      *communication.CommandSubscriber
	HTTPServer    *httpserver.StandardServer
}
