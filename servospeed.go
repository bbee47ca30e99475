package servospeed

import "time"

const (
	// Prompt is printed before every console read
	Prompt = "> "

	// AverageSpeedPrefix starts the line that reports the mean of a run
	AverageSpeedPrefix = "average speed "

	// BadCommandPrefix starts the line that reports an unrecognized command
	BadCommandPrefix = "bad command <"
)

// Preset is a named calibration that replaces the whole Profile
type Preset int

const (
	PresetNone Preset = iota
	PresetNarrow
	PresetNormal
)

func (p Preset) String() string {
	switch p {
	case PresetNarrow:
		return "narrow"
	case PresetNormal:
		return "normal"
	default:
		fallthrough
	case PresetNone:
		return "none"
	}
}

// Profile returns the literal values for the Preset. PresetNone returns the zero Profile
func (p Preset) Profile() Profile {
	switch p {
	case PresetNarrow:
		return Profile{ZeroUs: 780, SixtyUs: 400, RateHz: 560}
	case PresetNormal:
		return Profile{ZeroUs: 1500, SixtyUs: 2100, RateHz: 333}
	default:
		return Profile{}
	}
}

// Profile is the calibration used to drive the servo. Positions are pulse widths in microseconds
// and RateHz is the PWM refresh rate
type Profile struct {
	ZeroUs  int `json:"zero_us" yaml:"zero_us"`
	SixtyUs int `json:"sixty_us" yaml:"sixty_us"`
	RateHz  int `json:"rate_hz" yaml:"rate_hz"`
}

// DefaultProfile is the profile a freshly started session uses
func DefaultProfile() Profile {
	return PresetNormal.Profile()
}

// Measurement is one completed "run" as seen from the console: the profile in effect, how many
// trials ran and their average transition time in seconds
type Measurement struct {
	Profile        Profile   `json:"profile"`
	Trials         int       `json:"trials"`
	AverageSeconds float64   `json:"average_seconds"`
	Time           time.Time `json:"time"`
}
