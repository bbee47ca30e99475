// Package bench assembles a console from the hardware a target provides. The TinyGo firmware, the
// Linux board command and the simulator all build their session here.
package bench

import (
	"errors"
	"io"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/pins"
	"github.com/calvinmclean/servospeed/pulse"
	"github.com/calvinmclean/servospeed/session"
	"github.com/calvinmclean/servospeed/ticks"
	"github.com/calvinmclean/servospeed/trial"
)

// Hardware is the set of pre-configured capabilities a target hands to the console
type Hardware struct {
	Counter ticks.Counter
	ClockHz uint32

	PWM        pulse.PWM
	PWMChannel uint8

	Sensor          pins.Input
	SensorActiveLow bool

	LED          pins.Output
	LEDActiveLow bool
}

// Stack is a ready to run console and the parts it was built from
type Stack struct {
	Profile *servospeed.Profile
	Clock   *ticks.Clock
	Channel *pulse.Channel
	Runner  *trial.Runner
	Session *session.Session
}

// Build creates the console and parks the servo at the profile's zero position with the
// indicator off
func Build(hw Hardware, trialCfg trial.Config, profile servospeed.Profile, w io.Writer) (*Stack, error) {
	if hw.Counter == nil || hw.PWM == nil || hw.Sensor == nil || hw.LED == nil {
		return nil, errors.New("incomplete hardware")
	}
	if hw.ClockHz == 0 {
		return nil, errors.New("clock frequency is required")
	}

	channel, err := pulse.New(hw.PWM, hw.PWMChannel)
	if err != nil {
		return nil, errors.New("error creating pulse channel: " + err.Error())
	}
	channel.SetPulseWidth(profile.ZeroUs)

	led := pins.NewIndicator(hw.LED, hw.LEDActiveLow)
	led.Off()

	clock := ticks.NewClock(hw.Counter, hw.ClockHz)
	runner := trial.New(
		clock,
		channel,
		pins.NewCompletion(hw.Sensor, hw.SensorActiveLow),
		led,
		trialCfg,
	)

	p := profile
	return &Stack{
		Profile: &p,
		Clock:   clock,
		Channel: channel,
		Runner:  runner,
		Session: session.New(&p, channel, runner, w),
	}, nil
}
