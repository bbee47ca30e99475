// Package sim is a software servo rig. It implements the counter, PWM output, completion signal
// and indicator that the core packages expect, on a virtual clock that advances whenever the
// counter or the completion signal is read. Busy-waits therefore finish instantly while still
// measuring deterministic, physically plausible travel times.
package sim

import (
	"io"
	"math"
	"math/rand"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/bench"
	"github.com/calvinmclean/servospeed/pulse"
	"github.com/calvinmclean/servospeed/ticks"
	"github.com/calvinmclean/servospeed/trial"
)

// Config describes the simulated servo
type Config struct {
	// ClockHz is the virtual counter frequency
	ClockHz uint32 `yaml:"clock_hz"`
	// TicksPerPoll is how far the clock moves for each completion signal poll
	TicksPerPoll uint32 `yaml:"ticks_per_poll"`
	// SecondsPer60 is the travel time for a 600us change in pulse width
	SecondsPer60 float64 `yaml:"seconds_per_60"`
	// Jitter adds up to this fraction of random variation to each move
	Jitter float64 `yaml:"jitter"`
	Seed   int64   `yaml:"seed"`
	// StartTicks is the initial counter value. Values close to the maximum exercise wraparound
	StartTicks uint32 `yaml:"start_ticks"`
}

// DefaultConfig is a typical analog servo: 0.12s per 60 degrees on a 1MHz clock
func DefaultConfig() Config {
	return Config{
		ClockHz:      1_000_000,
		TicksPerPoll: 1,
		SecondsPer60: 0.12,
	}
}

const usPer60 = 600

// Rig is the simulated hardware. It is not safe for concurrent use
type Rig struct {
	cfg Config
	rnd *rand.Rand

	now uint32

	periodUs uint64
	widthUs  uint32
	moving   bool
	moveEnd  uint32
	moves    int

	LED *Light
}

// New creates a Rig with the PWM at the 50Hz power-on default and the servo at rest
func New(cfg Config) *Rig {
	if cfg.ClockHz == 0 {
		cfg.ClockHz = DefaultConfig().ClockHz
	}
	if cfg.TicksPerPoll == 0 {
		cfg.TicksPerPoll = DefaultConfig().TicksPerPoll
	}
	return &Rig{
		cfg:      cfg,
		rnd:      rand.New(rand.NewSource(cfg.Seed)),
		now:      cfg.StartTicks,
		periodUs: 1_000_000 / pulse.DefaultRefreshRate,
		LED:      &Light{},
	}
}

// Now implements ticks.Counter. Every read moves the clock forward one tick
func (r *Rig) Now() uint32 {
	v := r.now
	r.now++
	return v
}

// Hz returns the virtual clock frequency
func (r *Rig) Hz() uint32 {
	return r.cfg.ClockHz
}

// Top implements pulse.PWM. The PWM counter runs at 1MHz so Top is the period in microseconds
func (r *Rig) Top() uint32 {
	return uint32(r.periodUs)
}

// SetPeriod implements pulse.PWM
func (r *Rig) SetPeriod(period uint64) error {
	if period < 1000 {
		return pulse.ErrInvalidRate
	}
	r.periodUs = period / 1000
	return nil
}

// Set implements pulse.PWM. A new width starts a move that completes one refresh period later
// plus the travel time
func (r *Rig) Set(_ uint8, value uint32) {
	if value == r.widthUs {
		return
	}

	delta := math.Abs(float64(value) - float64(r.widthUs))
	r.widthUs = value

	seconds := delta / usPer60 * r.cfg.SecondsPer60
	if r.cfg.Jitter > 0 {
		seconds *= 1 + r.cfg.Jitter*(2*r.rnd.Float64()-1)
	}
	travel := uint32(math.Round(seconds * float64(r.cfg.ClockHz)))
	latency := uint32(r.periodUs * uint64(r.cfg.ClockHz) / 1_000_000)

	r.moving = true
	r.moveEnd = r.now + latency + travel
	r.moves++
}

// Get implements pins.Input for the completion signal: high while the servo is moving
func (r *Rig) Get() bool {
	r.now += r.cfg.TicksPerPoll
	if r.moving && ticks.Reached(r.moveEnd, r.now) {
		r.moving = false
	}
	return r.moving
}

// PulseWidth returns the pulse width the servo is tracking in microseconds
func (r *Rig) PulseWidth() int {
	return int(r.widthUs)
}

// Moves returns the number of moves started
func (r *Rig) Moves() int {
	return r.moves
}

// Light records the indicator state
type Light struct {
	On       bool
	Switches int
}

// Set implements pins.Output
func (l *Light) Set(v bool) {
	if v != l.On {
		l.Switches++
	}
	l.On = v
}

// Stack is a complete console running against a Rig
type Stack struct {
	*bench.Stack
	Rig *Rig
}

// NewStack wires a Rig to the real pulse, pins, trial and session packages and parks the servo at
// the profile's zero position
func NewStack(cfg Config, trialCfg trial.Config, profile servospeed.Profile, w io.Writer) (*Stack, error) {
	rig := New(cfg)

	stack, err := bench.Build(bench.Hardware{
		Counter: rig,
		ClockHz: rig.Hz(),
		PWM:     rig,
		Sensor:  rig,
		LED:     rig.LED,
	}, trialCfg, profile, w)
	if err != nil {
		return nil, err
	}

	return &Stack{Stack: stack, Rig: rig}, nil
}
