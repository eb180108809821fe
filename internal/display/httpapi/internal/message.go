package internal

import "disp32x8-server/internal/display/domain"

type MessageRequest struct {
	Message  string `json:"message"`
	Position string `json:"position"`
}

type DeviceResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	DisplayIP       string `json:"display_ip"`
	DisplayPort     int    `json:"display_port"`
	TempIntSensorID int    `json:"temp_int_sensor_id"`
	TempExtSensorID int    `json:"temp_ext_sensor_id"`
	RainSensorID    int    `json:"rain_sensor_id"`
}

type DeviceListResponse struct {
	Data []DeviceResponse `json:"data"`
}

func FromDevices(devices []domain.Device) DeviceListResponse {
	data := make([]DeviceResponse, 0, len(devices))
	for _, d := range devices {
		data = append(data, DeviceResponse{
			ID:              int(d.ID),
			Name:            d.Name,
			DisplayIP:       d.Address,
			DisplayPort:     d.Port,
			TempIntSensorID: int(d.TempIntSensorID),
			TempExtSensorID: int(d.TempExtSensorID),
			RainSensorID:    int(d.RainSensorID),
		})
	}
	return DeviceListResponse{Data: data}
}
