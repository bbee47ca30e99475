// Package session is the console loop: it reads a line, applies the parsed command to the
// calibration profile and the servo output, prints the profile and runs trials on request.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/commands"
	"github.com/calvinmclean/servospeed/trial"
)

// Positioner moves the servo
type Positioner interface {
	SetPulseWidth(us int)
}

// Runner runs timed trials
type Runner interface {
	RunTrials(n int, p servospeed.Profile) (trial.Result, error)
	SetVerbose(bool)
	Verbose() bool
}

// Session owns the calibration profile for the lifetime of the console
type Session struct {
	profile *servospeed.Profile
	servo   Positioner
	runner  Runner
	w       io.Writer
}

// New creates a Session that writes all console output to w
func New(profile *servospeed.Profile, servo Positioner, runner Runner, w io.Writer) *Session {
	return &Session{
		profile: profile,
		servo:   servo,
		runner:  runner,
		w:       w,
	}
}

// Profile returns the current calibration
func (s *Session) Profile() servospeed.Profile {
	return *s.profile
}

// Run prompts for and handles lines until r is exhausted or ctx is done. Cancellation is checked
// between lines, so a trial in progress always finishes
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.w, servospeed.Prompt)
		if f, ok := s.w.(interface{ Flush() error }); ok {
			_ = f.Flush()
		}

		line, err := br.ReadString('\n')
		if len(line) > 0 {
			s.Handle(line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading console: %w", err)
		}
	}
}

// Handle applies one console line and prints the result
func (s *Session) Handle(line string) {
	c := commands.Parse(line)

	switch {
	case c.Preset != servospeed.PresetNone:
		*s.profile = c.Preset.Profile()
	case c.Help:
		fmt.Fprintln(s.w, "Available Commands:")
		for _, l := range commands.Help() {
			fmt.Fprintln(s.w, l)
		}
	case c.Verbose:
		s.runner.SetVerbose(!s.runner.Verbose())
		state := "off"
		if s.runner.Verbose() {
			state = "on"
		}
		fmt.Fprintf(s.w, "Verbose mode %s\n", state)
	default:
		s.apply(c)
	}

	s.printProfile()

	if !c.Run.Positive() {
		return
	}

	result, err := s.runner.RunTrials(c.Run.Value, *s.profile)
	if err != nil {
		fmt.Fprintf(s.w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.w, "%s%.5f\n", servospeed.AverageSpeedPrefix, result.Mean)
}

func (s *Session) apply(c commands.Command) {
	if c.Unrecognized {
		fmt.Fprintf(s.w, "%s%s>\n", servospeed.BadCommandPrefix, c.Line)
		return
	}

	if c.Zero.Positive() {
		s.profile.ZeroUs = c.Zero.Value
		s.servo.SetPulseWidth(s.profile.ZeroUs)
	}
	if c.Sixty.Positive() {
		s.profile.SixtyUs = c.Sixty.Value
		s.servo.SetPulseWidth(s.profile.SixtyUs)
	}
	if c.Rate.Positive() {
		s.profile.RateHz = c.Rate.Value
	}
}

func (s *Session) printProfile() {
	fmt.Fprintf(s.w, "\n\nrate   - %dHz\n", s.profile.RateHz)
	fmt.Fprintf(s.w, "0 deg  - %dms\n60 deg - %dms\n", s.profile.ZeroUs, s.profile.SixtyUs)
}
