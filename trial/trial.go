// Package trial times how long a servo takes to travel from its zero position to its sixty degree
// position. A trial drives the servo to the sixty degree pulse width, busy-polls the completion
// signal until it deasserts, returns the servo to zero and then waits for a settle time that is
// proportional to the measured travel time.
//
// The completion wait has no timeout by default: a signal that never deasserts blocks forever,
// which matches how the tool behaves on the bench. Config.PollLimit turns this into ErrTimeout.
package trial

import (
	"errors"
	"fmt"
	"time"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/ticks"
)

var (
	// ErrNoTrials is returned when a run is requested with a non-positive trial count
	ErrNoTrials = errors.New("no trials")
	// ErrTimeout is returned when Config.PollLimit is set and the completion signal stays asserted
	ErrTimeout = errors.New("timed out waiting for completion signal")
)

// State is the phase of the trial that is in progress
type State int

const (
	StateIdle State = iota
	StateDriveExtreme
	StateMeasuring
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateDriveExtreme:
		return "DriveExtreme"
	case StateMeasuring:
		return "Measuring"
	case StateSettling:
		return "Settling"
	default:
		fallthrough
	case StateIdle:
		return "Idle"
	}
}

// Positioner sets the servo control signal
type Positioner interface {
	SetRefreshRate(hz int) error
	SetPulseWidth(us int)
}

// Sensor reports whether the servo is still moving
type Sensor interface {
	Asserted() bool
}

// Indicator marks a trial in progress
type Indicator interface {
	On()
	Off()
}

// Config controls the timing around each trial
type Config struct {
	// SettleFactor multiplies the measured travel time to get the pause after each trial
	SettleFactor float64 `yaml:"settle_factor"`
	// InitialSettle is the pause after parking at zero before the first trial
	InitialSettle time.Duration `yaml:"initial_settle"`
	// PollLimit is the maximum number of ticks to wait for the completion signal. Zero waits forever
	PollLimit uint32 `yaml:"poll_limit"`
}

// DefaultConfig returns the settle timing used on the bench: twice the travel time and a 500ms
// initial park, with no limit on the completion wait
func DefaultConfig() Config {
	return Config{
		SettleFactor:  2,
		InitialSettle: 500 * time.Millisecond,
	}
}

// Result holds the travel times of a run in seconds
type Result struct {
	Times []float64
	Mean  float64
}

// Trials returns the number of completed trials
func (r Result) Trials() int {
	return len(r.Times)
}

// Runner runs trials. It needs exclusive use of the Positioner for the whole run
type Runner struct {
	clock  *ticks.Clock
	out    Positioner
	sensor Sensor
	led    Indicator
	cfg    Config

	state   State
	verbose bool
}

// New creates a Runner
func New(clock *ticks.Clock, out Positioner, sensor Sensor, led Indicator, cfg Config) *Runner {
	return &Runner{
		clock:  clock,
		out:    out,
		sensor: sensor,
		led:    led,
		cfg:    cfg,
		state:  StateIdle,
	}
}

// State returns the current phase
func (r *Runner) State() State {
	return r.state
}

// SetVerbose enables per-trial diagnostics
func (r *Runner) SetVerbose(v bool) {
	r.verbose = v
}

// Verbose reports whether per-trial diagnostics are enabled
func (r *Runner) Verbose() bool {
	return r.verbose
}

// RunTrials parks the servo at zero, waits for InitialSettle and then runs n trials one after
// another. The returned Result holds every completed trial even when an error stops the run early
func (r *Runner) RunTrials(n int, p servospeed.Profile) (Result, error) {
	if n <= 0 {
		return Result{}, ErrNoTrials
	}

	r.out.SetPulseWidth(p.ZeroUs)
	r.clock.Delay(r.cfg.InitialSettle)

	result := Result{Times: make([]float64, 0, n)}
	var sum float64
	for i := 0; i < n; i++ {
		elapsed, err := r.Trial(p)
		if err != nil {
			if len(result.Times) > 0 {
				result.Mean = sum / float64(len(result.Times))
			}
			return result, fmt.Errorf("trial %d: %w", i+1, err)
		}

		sum += elapsed
		result.Times = append(result.Times, elapsed)
	}
	result.Mean = sum / float64(n)

	return result, nil
}

// Trial runs one timed transition and returns the travel time in seconds
func (r *Runner) Trial(p servospeed.Profile) (float64, error) {
	r.state = StateDriveExtreme

	err := r.out.SetRefreshRate(p.RateHz)
	if err != nil {
		r.state = StateIdle
		return 0, err
	}
	r.led.On()
	r.out.SetPulseWidth(p.SixtyUs)

	r.state = StateMeasuring
	start := r.clock.Now()
	stop, ok := WaitWhile(r.clock, r.sensor.Asserted, r.cfg.PollLimit)

	r.out.SetPulseWidth(p.ZeroUs)
	r.led.Off()

	if !ok {
		r.state = StateIdle
		return 0, ErrTimeout
	}

	elapsedTicks := ticks.Since(start, stop)
	elapsed := r.clock.Seconds(elapsedTicks)

	if r.verbose {
		println("trial: ticks", elapsedTicks, "us", int(elapsed*1e6))
	}

	r.state = StateSettling
	r.clock.Delay(SettleDelay(elapsed, r.cfg.SettleFactor))

	r.state = StateIdle
	return elapsed, nil
}

// SettleDelay is the pause after a trial, truncated to whole milliseconds
func SettleDelay(elapsed, factor float64) time.Duration {
	ms := int64(factor * elapsed * 1000)
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// WaitWhile polls cond until it returns false and returns the clock reading taken right after.
// A limit of zero polls without ever giving up and does not read the clock between polls.
// Otherwise it returns false once limit ticks passed with cond still true
func WaitWhile(clock *ticks.Clock, cond func() bool, limit uint32) (uint32, bool) {
	if limit == 0 {
		for cond() {
		}
		return clock.Now(), true
	}

	start := clock.Now()
	for cond() {
		now := clock.Now()
		if ticks.Since(start, now) >= limit {
			return now, false
		}
	}
	return clock.Now(), true
}
