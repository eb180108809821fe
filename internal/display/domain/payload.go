package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	TemperaturePlaceholder = "--.-"
	noRain                 = "0.0"
)

// MessagePayload appends the position terminator to a free text message.
func MessagePayload(text string, position Position) string {
	return text + position.Terminator()
}

func TemperaturePayload(value string) string {
	return fmt.Sprintf("%s° %s", value, PositionCenter.Terminator())
}

// RainPayload formats a rainfall reading. It reports false when there is
// nothing worth showing: zero rain or a value that is not a number.
func RainPayload(value string) (string, bool) {
	if value == noRain {
		return "", false
	}

	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", false
	}

	return fmt.Sprintf("%.1fM %s", amount, PositionCenter.Terminator()), true
}

// ClockPayload renders hours space padded, like strftime's %k.
func ClockPayload(now time.Time) string {
	return fmt.Sprintf("%2d:%02d%s", now.Hour(), now.Minute(), PositionCenter.Terminator())
}
