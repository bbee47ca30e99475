//go:build tinygo

package device

import (
	"errors"
	"machine"
	"time"

	"tinygo.org/x/drivers/servo"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/bench"
)

// Device owns the servo PWM, the completion signal and LED pins, and the serial console
type Device struct {
	cfg     Config
	servo   servo.Servo
	channel uint8
}

// New brings the PWM up at the servo's default refresh rate, parks the servo at profile's zero
// position and configures the pins
func New(cfg Config, profile servospeed.Profile) (*Device, error) {
	s, err := servo.New(cfg.Servo.PWM, cfg.Servo.Pin)
	if err != nil {
		return nil, errors.New("error creating servo: " + err.Error())
	}
	s.SetMicroseconds(int16(profile.ZeroUs))

	channel, err := cfg.Servo.PWM.Channel(cfg.Servo.Pin)
	if err != nil {
		return nil, errors.New("error getting PWM channel: " + err.Error())
	}

	cfg.SensorPin.Configure(machine.PinConfig{Mode: cfg.SensorMode})
	cfg.LEDPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &Device{
		cfg:     cfg,
		servo:   s,
		channel: channel,
	}, nil
}

// Hardware returns the peripherals for building the console
func (d *Device) Hardware() bench.Hardware {
	return bench.Hardware{
		Counter:         counter,
		ClockHz:         counterHz,
		PWM:             d.cfg.Servo.PWM,
		PWMChannel:      d.channel,
		Sensor:          d.cfg.SensorPin,
		SensorActiveLow: d.cfg.SensorActiveLow,
		LED:             d.cfg.LEDPin,
		LEDActiveLow:    d.cfg.LEDActiveLow,
	}
}

// Read implements io.Reader for the serial console. It blocks until at least one byte is available
func (d *Device) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for machine.Serial.Buffered() == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	n := 0
	for n < len(p) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			println("error reading serial:", err.Error())
			break
		}
		p[n] = b
		n++
	}

	return n, nil
}

// Write implements io.Writer for the serial console
func (d *Device) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}
