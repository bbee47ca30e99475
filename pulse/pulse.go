// Package pulse drives a servo control signal: a PWM output whose period is set by the refresh rate
// and whose high time, in microseconds, encodes the commanded position.
package pulse

import (
	"errors"
	"fmt"
)

// DefaultRefreshRate is the rate a Channel starts with. Most analog servos expect 50Hz
const DefaultRefreshRate = 50

// ErrInvalidRate is returned for refresh rates that do not give a period of at least 1us
var ErrInvalidRate = errors.New("invalid refresh rate")

// PWM is the part of a PWM peripheral that a Channel needs. TinyGo's machine.PWM groups
// implement it, as do the board adapters
type PWM interface {
	// Top is the counter value that corresponds to a 100% duty cycle for the current period
	Top() uint32
	// Set sets the channel's duty as a value between 0 and Top
	Set(channel uint8, value uint32)
	// SetPeriod changes the period in nanoseconds. It may change Top
	SetPeriod(period uint64) error
}

// Channel is one servo output on a PWM peripheral
type Channel struct {
	pwm     PWM
	channel uint8

	rateHz   int
	periodUs uint64
	widthUs  int
	hasWidth bool
}

// New creates a Channel and sets the DefaultRefreshRate. No pulse is set until SetPulseWidth
func New(pwm PWM, channel uint8) (*Channel, error) {
	c := &Channel{pwm: pwm, channel: channel}
	err := c.SetRefreshRate(DefaultRefreshRate)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SetRefreshRate sets the period to 1_000_000/hz microseconds. The current pulse width is applied
// again for the new period so the output stays enabled
func (c *Channel) SetRefreshRate(hz int) error {
	if hz <= 0 || hz > 1_000_000 {
		return fmt.Errorf("%w: %dHz", ErrInvalidRate, hz)
	}

	periodUs := uint64(1_000_000 / hz)
	err := c.pwm.SetPeriod(periodUs * 1000)
	if err != nil {
		return errors.New("error setting period: " + err.Error())
	}

	c.rateHz = hz
	c.periodUs = periodUs

	if c.hasWidth {
		c.apply()
	}
	return nil
}

// SetPulseWidth sets the high time in microseconds. Values are not range checked, so a width
// longer than the period saturates the output
func (c *Channel) SetPulseWidth(us int) {
	c.widthUs = us
	c.hasWidth = true
	c.apply()
}

// RefreshRate returns the current refresh rate in Hz
func (c *Channel) RefreshRate() int {
	return c.rateHz
}

// PulseWidth returns the last pulse width set, in microseconds
func (c *Channel) PulseWidth() int {
	return c.widthUs
}

// Duty returns the raw duty value for a pulse width at the current period
func (c *Channel) Duty(us int) uint32 {
	if us <= 0 {
		return 0
	}
	return uint32(uint64(c.pwm.Top()) * uint64(us) / c.periodUs)
}

func (c *Channel) apply() {
	c.pwm.Set(c.channel, c.Duty(c.widthUs))
}
