package domain

import (
	"errors"
	"fmt"
)

type Position string

const (
	PositionScroll Position = "scroll"
	PositionLeft   Position = "left"
	PositionCenter Position = "center"
	PositionRight  Position = "right"
	PositionBeep   Position = "beep"
	PositionTime   Position = "time"
)

var ErrUnknownPosition = errors.New("unknown position")

var terminators = map[Position]string{
	PositionScroll: "%\n",
	PositionLeft:   "@\n",
	PositionCenter: "#\n",
	PositionRight:  "*\n",
	PositionBeep:   "$\n",
	PositionTime:   "!\n",
}

func ParsePosition(value string) (Position, error) {
	position := Position(value)
	if _, ok := terminators[position]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, value)
	}

	return position, nil
}

// Terminator returns the suffix the board uses to pick a rendering mode.
// Unknown positions yield an empty string.
func (p Position) Terminator() string {
	return terminators[p]
}
