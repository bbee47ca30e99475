package board

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/calvinmclean/servospeed/pulse"
)

func TestFrequency(t *testing.T) {
	tests := []struct {
		name     string
		period   uint64
		expected physic.Frequency
	}{
		{"50Hz", 20_000_000, 50 * physic.Hertz},
		{"333Hz", 1_000_000_000 / 333, physic.Frequency(uint64(physic.Hertz) * 1_000_000_000 / (1_000_000_000 / 333))},
		{"1kHz", 1_000_000, physic.KiloHertz},
		{"Zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := frequency(tt.period)
			if got != tt.expected {
				t.Errorf("expected=%v, got=%v", tt.expected, got)
			}
		})
	}
}

func TestPinPWM(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO18"}
	out := &pinPWM{pin: p}

	ch, err := pulse.New(out, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ch.SetPulseWidth(1500)

	if p.F != 50*physic.Hertz {
		t.Errorf("expected=%v, got=%v", 50*physic.Hertz, p.F)
	}
	// 1500us of a 20000us period
	expected := gpio.Duty(uint64(gpio.DutyMax) * 1500 / 20000)
	if p.D != expected {
		t.Errorf("expected=%v, got=%v", expected, p.D)
	}
}

type fakeDevice struct {
	freq     physic.Frequency
	channel  int
	off      gpio.Duty
	freqErr  error
	setCalls int
}

func (f *fakeDevice) SetPwmFreq(freq physic.Frequency) error {
	f.freq = freq
	return f.freqErr
}

func (f *fakeDevice) SetPwm(channel int, _, off gpio.Duty) error {
	f.channel = channel
	f.off = off
	f.setCalls++
	return nil
}

func TestPCAPWM(t *testing.T) {
	dev := &fakeDevice{}
	out := &pcaPWM{dev: dev, channel: 3}

	ch, err := pulse.New(out, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ch.SetPulseWidth(2000)

	if dev.freq != 50*physic.Hertz {
		t.Errorf("expected=%v, got=%v", 50*physic.Hertz, dev.freq)
	}
	if dev.channel != 3 {
		t.Errorf("expected=%d, got=%d", 3, dev.channel)
	}
	// 2000us of a 20000us period on a 12 bit counter
	if dev.off != 409 {
		t.Errorf("expected=%d, got=%d", 409, dev.off)
	}

	out.Set(0, pcaDutyMax)
	if dev.off != pcaDutyMax-1 {
		t.Errorf("expected=%d, got=%d", pcaDutyMax-1, dev.off)
	}
}

func TestPCAPWMFrequencyError(t *testing.T) {
	dev := &fakeDevice{freqErr: errors.New("i2c failure")}

	_, err := pulse.New(&pcaPWM{dev: dev}, 0)
	if err == nil {
		t.Errorf("expected error")
	}
}

func TestSensorPull(t *testing.T) {
	tests := []struct {
		name     string
		expected gpio.Pull
		err      bool
	}{
		{"up", gpio.PullUp, false},
		{"down", gpio.PullDown, false},
		{"none", gpio.Float, false},
		{"", gpio.PullNoChange, true},
		{"sideways", gpio.PullNoChange, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sensorPull(tt.name)
			if (err != nil) != tt.err {
				t.Errorf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected=%v, got=%v", tt.expected, got)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO27"}
	l := level{p}

	l.Set(true)
	if !l.Get() {
		t.Errorf("expected pin to read high")
	}
	l.Set(false)
	if l.Get() {
		t.Errorf("expected pin to read low")
	}
}
