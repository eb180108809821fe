package domain

import (
	"net"
	"strconv"
)

type DeviceID int

type SensorID int

// Device identifies one physical board and the sensors it shows.
type Device struct {
	ID              DeviceID `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"display_ip"`
	Port            int      `json:"display_port"`
	TempIntSensorID SensorID `json:"temp_int_sensor_id"`
	TempExtSensorID SensorID `json:"temp_ext_sensor_id"`
	RainSensorID    SensorID `json:"rain_sensor_id"`
}

func (d Device) Endpoint() string {
	return net.JoinHostPort(d.Address, strconv.Itoa(d.Port))
}
