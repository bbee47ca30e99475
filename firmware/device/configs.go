//go:build tinygo

package device

import (
	"machine"

	"tinygo.org/x/drivers/servo"
)

// ServoConfig has device-level values for setting up the Servo
type ServoConfig struct {
	Pin machine.Pin
	PWM servo.PWM
}

// Config has the pins used by the tester
type Config struct {
	Servo ServoConfig

	// SensorPin reads the servo's completion signal
	SensorPin       machine.Pin
	SensorActiveLow bool
	// SensorMode is the input mode including the pull resistor, e.g. machine.PinInputPullup
	SensorMode machine.PinMode

	LEDPin       machine.Pin
	LEDActiveLow bool
}
