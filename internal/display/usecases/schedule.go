package usecases

// Phase is a periodic action of the display loop.
type Phase int

const (
	PhaseBoardClock Phase = iota
	PhaseIndoorTemperature
	PhaseOutdoorTemperature
	PhaseRain
	PhaseClock
)

// periodicPhases is the evaluation order within one second. PhaseRain must
// come before PhaseClock because its outcome moves the clock re-render.
var periodicPhases = []Phase{
	PhaseBoardClock,
	PhaseIndoorTemperature,
	PhaseOutdoorTemperature,
	PhaseRain,
	PhaseClock,
}

func (p Phase) String() string {
	switch p {
	case PhaseBoardClock:
		return "board_clock"
	case PhaseIndoorTemperature:
		return "indoor_temperature"
	case PhaseOutdoorTemperature:
		return "outdoor_temperature"
	case PhaseRain:
		return "rain"
	case PhaseClock:
		return "clock"
	default:
		return "unknown"
	}
}

type schedule struct {
	offset    int
	rainShift int
}

func newSchedule(offset int) *schedule {
	return &schedule{offset: offset}
}

// second returns the second of minute at which phase fires.
func (s *schedule) second(phase Phase) int {
	switch phase {
	case PhaseBoardClock:
		return 0
	case PhaseIndoorTemperature:
		return s.offset
	case PhaseOutdoorTemperature:
		return 2 * s.offset
	case PhaseRain:
		return 3 * s.offset
	case PhaseClock:
		return 3*s.offset + s.rainShift
	default:
		return -1
	}
}

func (s *schedule) due(phase Phase, second int) bool {
	return s.second(phase) == second
}

// rainDisplayed delays the clock re-render by one offset so the rain
// reading stays visible.
func (s *schedule) rainDisplayed(displayed bool) {
	if displayed {
		s.rainShift = s.offset
		return
	}
	s.rainShift = 0
}
