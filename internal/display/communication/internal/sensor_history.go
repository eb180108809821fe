package internal

import (
	"errors"
	"math"
	"time"

	"disp32x8-server/internal/display/domain"
)

const ModeLast = "last"

var ErrNoValues = errors.New("sensor history reply without values")

type SensorHistoryRequest struct {
	RequestID string `json:"request_id"`
	ReplyTo   string `json:"reply_to"`
	SensorID  int    `json:"sensor_id"`
	Mode      string `json:"mode"`
}

type SensorHistoryReply struct {
	RequestID string        `json:"request_id"`
	Status    bool          `json:"status"`
	Reason    string        `json:"reason"`
	SensorID  int           `json:"sensor_id"`
	Mode      string        `json:"mode"`
	Values    []SensorValue `json:"values"`
}

type SensorValue struct {
	Timestamp float64  `json:"timestamp"`
	ValueStr  string   `json:"value_str"`
	ValueNum  *float64 `json:"value_num"`
}

// ToDomain keeps the first value only, the reply of a "last" request.
func (r SensorHistoryReply) ToDomain() (domain.SensorReading, error) {
	reading := domain.SensorReading{
		SensorID: domain.SensorID(r.SensorID),
		Status:   r.Status,
		Reason:   r.Reason,
	}
	if !r.Status {
		return reading, nil
	}
	if len(r.Values) == 0 {
		return reading, ErrNoValues
	}

	value := r.Values[0]
	reading.Timestamp = fromUnixSeconds(value.Timestamp)
	reading.Value = value.ValueStr
	return reading, nil
}

func fromUnixSeconds(seconds float64) time.Time {
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*float64(time.Second)))
}
