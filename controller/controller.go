// Package controller runs on the host computer and relays a terminal to the servo console over a
// serial port. It keeps track of every run the console reports and forwards the results to the
// configured reporters
package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/config"
	"github.com/calvinmclean/servospeed/report"
)

const reportBuffer = 16

type Controller struct {
	port     io.ReadWriteCloser
	tracker  *Tracker
	reporter reporter
	closers  []func()

	closeOnce *sync.Once
	closeErr  error
}

// New opens the serial port, or the simulator for SerialPortNone, and connects the reporters from
// cfg
func New(cfg config.Config) (*Controller, error) {
	rep, closers, err := newReporter(cfg)
	if err != nil {
		return nil, err
	}

	port, err := openPort(cfg)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}

	c := newController(port, rep)
	c.closers = closers
	return c, nil
}

// NewFromEnv creates a Controller using the defaults and SERVOSPEED_* environment variables
func NewFromEnv() (*Controller, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

func newController(port io.ReadWriteCloser, rep reporter) *Controller {
	return &Controller{
		port:      port,
		tracker:   NewTracker(),
		reporter:  rep,
		closeOnce: &sync.Once{},
	}
}

func newReporter(cfg config.Config) (reporter, []func(), error) {
	var rs reporters
	var closers []func()

	if cfg.Report.Addr != "" {
		rs = append(rs, report.NewClient(cfg.Report.Addr, cfg.Report.Session))
	}

	if cfg.MQTT.Broker != "" {
		p, err := report.NewPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			return nil, nil, err
		}
		rs = append(rs, p)
		closers = append(closers, p.Close)
	}

	if len(rs) == 0 {
		return noopReporter{}, nil, nil
	}
	return rs, closers, nil
}

// Run sends each line read from in to the device and copies everything the device prints to out.
// It returns when the device output ends or ctx is canceled
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reports := make(chan servospeed.Measurement, reportBuffer)
	c.tracker.OnMeasurement = func(m servospeed.Measurement) {
		select {
		case reports <- m:
		default:
			log.Printf("controller: dropping report for run at %s", m.Time)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for m := range reports {
			err := c.reporter.Report(ctx, m)
			if err != nil {
				log.Printf("controller: error reporting measurement: %v", err)
			}
		}
	}()

	go c.send(in)

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	_, err := io.Copy(io.MultiWriter(out, c.tracker), c.port)

	close(reports)
	wg.Wait()

	if ctx.Err() != nil || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading from device: %w", err)
	}
	return nil
}

func (c *Controller) send(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		c.tracker.Sent(line)

		_, err := io.WriteString(c.port, line+"\n")
		if err != nil {
			log.Printf("controller: error writing to device: %v", err)
			return
		}
	}

	if cw, ok := c.port.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
}

// Measurements returns every run reported by the device so far
func (c *Controller) Measurements() []servospeed.Measurement {
	return c.tracker.Measurements()
}

// Summary summarizes every run reported by the device so far
func (c *Controller) Summary() Summary {
	return c.tracker.Summary()
}

// Close closes the port and disconnects reporters. It is safe to call more than once
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.port.Close()
		for _, closer := range c.closers {
			closer()
		}
	})
	return c.closeErr
}
