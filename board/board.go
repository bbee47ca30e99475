// Package board runs the console directly on a Linux single board computer using periph.io. The
// servo is driven either by a hardware PWM capable GPIO or by a PCA9685 on I2C
package board

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"

	"github.com/calvinmclean/servospeed/bench"
	"github.com/calvinmclean/servospeed/config"
	"github.com/calvinmclean/servospeed/pulse"
	"github.com/calvinmclean/servospeed/ticks"
)

// Board holds the opened peripherals
type Board struct {
	counter   *ticks.Monotonic
	pwm       pulse.PWM
	sensor    gpio.PinIO
	led       gpio.PinIO
	cfg       config.BoardConfig
	servoPin  gpio.PinIO
	bus       i2c.BusCloser
	pwmDevice *pca9685.Dev
}

// Open initializes the host drivers and claims the configured pins
func Open(cfg config.BoardConfig) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("error initializing host: %w", err)
	}

	b := &Board{
		counter: ticks.NewMonotonic(cfg.ClockResolution),
		cfg:     cfg,
	}

	var err error
	b.sensor, err = pin(cfg.SensorPin)
	if err != nil {
		return nil, err
	}
	pull, err := sensorPull(cfg.SensorPull)
	if err != nil {
		return nil, err
	}
	if err := b.sensor.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("error configuring sensor pin: %w", err)
	}

	b.led, err = pin(cfg.LEDPin)
	if err != nil {
		return nil, err
	}

	if cfg.PCA9685.Enabled {
		b.bus, err = i2creg.Open(cfg.PCA9685.Bus)
		if err != nil {
			return nil, fmt.Errorf("error opening I2C bus: %w", err)
		}

		b.pwmDevice, err = pca9685.NewI2C(b.bus, cfg.PCA9685.Address)
		if err != nil {
			_ = b.bus.Close()
			return nil, fmt.Errorf("error creating PCA9685: %w", err)
		}
		b.pwm = &pcaPWM{dev: b.pwmDevice, channel: cfg.PCA9685.Channel}
		return b, nil
	}

	b.servoPin, err = pin(cfg.PWMPin)
	if err != nil {
		return nil, err
	}
	b.pwm = &pinPWM{pin: b.servoPin}

	return b, nil
}

func sensorPull(name string) (gpio.Pull, error) {
	switch name {
	case config.PullUp:
		return gpio.PullUp, nil
	case config.PullDown:
		return gpio.PullDown, nil
	case config.PullNone:
		return gpio.Float, nil
	default:
		return gpio.PullNoChange, fmt.Errorf("invalid sensor pull %q", name)
	}
}

func pin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

// Hardware returns the board's peripherals in the form the console expects
func (b *Board) Hardware() bench.Hardware {
	return bench.Hardware{
		Counter:         b.counter,
		ClockHz:         b.counter.Hz(),
		PWM:             b.pwm,
		Sensor:          level{b.sensor},
		SensorActiveLow: b.cfg.SensorActiveLow,
		LED:             level{b.led},
		LEDActiveLow:    b.cfg.LEDActiveLow,
	}
}

// Close stops the servo pulses and releases the I2C bus
func (b *Board) Close() error {
	var errs []error
	if b.pwmDevice != nil {
		errs = append(errs, b.pwmDevice.SetPwm(b.cfg.PCA9685.Channel, 0, 0))
	}
	if b.servoPin != nil {
		errs = append(errs, b.servoPin.Halt())
	}
	if b.bus != nil {
		errs = append(errs, b.bus.Close())
	}
	return errors.Join(errs...)
}

// level adapts a periph pin to pins.Input and pins.Output
type level struct {
	pin gpio.PinIO
}

func (l level) Get() bool {
	return l.pin.Read() == gpio.High
}

func (l level) Set(v bool) {
	_ = l.pin.Out(gpio.Level(v))
}
