//go:build tinygo

package main

import (
	"context"
	"machine"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/bench"
	"github.com/calvinmclean/servospeed/firmware/device"
	"github.com/calvinmclean/servospeed/trial"
)

func main() {
	servoCfg := device.ServoConfig{
		PWM: machine.PWM3,
		Pin: machine.GP22,
	}

	profile := servospeed.DefaultProfile()

	d, err := device.New(device.Config{
		Servo:           servoCfg,
		SensorPin:       machine.GP15,
		SensorActiveLow: false,
		SensorMode:      machine.PinInputPullup,
		LEDPin:          machine.LED,
	}, profile)
	if err != nil {
		panic(err)
	}

	stack, err := bench.Build(d.Hardware(), trial.DefaultConfig(), profile, d)
	if err != nil {
		panic(err)
	}

	for {
		err := stack.Session.Run(context.Background(), d)
		if err != nil {
			println("error:", err.Error())
		}
	}
}
