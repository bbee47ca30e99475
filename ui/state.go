package ui

type state int

const (
	stateIdle state = iota
	stateRunning
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// next returns the state after a run is started or finished
func (s state) next() state {
	if s == stateRunning {
		return stateIdle
	}
	return stateRunning
}
