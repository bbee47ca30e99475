package board

import (
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// frequency units per hertz times nanoseconds per second
const periodToFrequency = uint64(physic.Hertz) * 1_000_000_000

func frequency(periodNs uint64) physic.Frequency {
	if periodNs == 0 {
		return 0
	}
	return physic.Frequency(periodToFrequency / periodNs)
}

// pinPWM drives a single hardware PWM GPIO. Duty is expressed in gpio.Duty units
type pinPWM struct {
	pin  gpio.PinOut
	freq physic.Frequency
}

func (p *pinPWM) Top() uint32 {
	return uint32(gpio.DutyMax)
}

func (p *pinPWM) SetPeriod(period uint64) error {
	p.freq = frequency(period)
	return nil
}

func (p *pinPWM) Set(_ uint8, value uint32) {
	err := p.pin.PWM(gpio.Duty(min(value, uint32(gpio.DutyMax))), p.freq)
	if err != nil {
		log.Printf("board: error setting PWM: %v", err)
	}
}

// pcaDutyMax is the PCA9685's 12 bit counter resolution
const pcaDutyMax = 4096

type pwmDevice interface {
	SetPwmFreq(freq physic.Frequency) error
	SetPwm(channel int, on, off gpio.Duty) error
}

// pcaPWM drives one channel of a PCA9685. The frequency is shared by all channels
type pcaPWM struct {
	dev     pwmDevice
	channel int
}

func (p *pcaPWM) Top() uint32 {
	return pcaDutyMax
}

func (p *pcaPWM) SetPeriod(period uint64) error {
	return p.dev.SetPwmFreq(frequency(period))
}

func (p *pcaPWM) Set(_ uint8, value uint32) {
	err := p.dev.SetPwm(p.channel, 0, gpio.Duty(min(value, pcaDutyMax-1)))
	if err != nil {
		log.Printf("board: error setting PCA9685 channel %d: %v", p.channel, err)
	}
}
