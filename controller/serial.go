package controller

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/calvinmclean/servospeed/config"
	"github.com/calvinmclean/servospeed/sim"
)

// SerialPortNone runs the console on the simulator instead of a device
const SerialPortNone = "none"

var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts returns the names of USB serial ports, which is how the firmware's console shows up
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var names []string
	for _, port := range ports {
		if port.IsUSB {
			names = append(names, port.Name)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoUSBSerial
	}

	return names, nil
}

// GetAllSerialPorts returns every serial port, USB or not
func GetAllSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}
	return ports, nil
}

// openPort opens the configured port. An empty port name picks the first USB serial port
func openPort(cfg config.Config) (io.ReadWriteCloser, error) {
	name := cfg.Serial.Port
	if name == SerialPortNone {
		return newSimPort(cfg)
	}

	if name == "" {
		ports, err := GetSerialPorts()
		if err != nil {
			return nil, err
		}
		name = ports[0]
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: cfg.Serial.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", name, err)
	}

	return port, nil
}

// simPort connects a simulated console through a pair of pipes so it looks like a serial port
type simPort struct {
	in  *io.PipeWriter
	out *io.PipeReader
}

func newSimPort(cfg config.Config) (*simPort, error) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	stack, err := sim.NewStack(cfg.Sim, cfg.Trial, cfg.Profile, outW)
	if err != nil {
		return nil, fmt.Errorf("error creating simulator: %w", err)
	}

	go func() {
		err := stack.Session.Run(context.Background(), inR)
		_ = outW.CloseWithError(err)
	}()

	return &simPort{in: inW, out: outR}, nil
}

func (p *simPort) Read(b []byte) (int, error) {
	return p.out.Read(b)
}

func (p *simPort) Write(b []byte) (int, error) {
	return p.in.Write(b)
}

// CloseWrite ends the simulated console's input. Remaining output can still be read
func (p *simPort) CloseWrite() error {
	return p.in.Close()
}

func (p *simPort) Close() error {
	return errors.Join(p.in.Close(), p.out.Close())
}
