package controller

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/commands"
)

const errorPrefix = "error: "

// Tracker follows a console conversation. Lines sent to the device are passed to Sent and device
// output is written to the Tracker. It keeps the last printed profile and turns every
// "average speed" line into a Measurement
type Tracker struct {
	mtx *sync.Mutex

	partial      []byte
	profile      servospeed.Profile
	pending      []int
	measurements []servospeed.Measurement
	now          func() time.Time

	// OnProfile is called after a complete profile block is printed
	OnProfile func(servospeed.Profile)
	// OnMeasurement is called for every completed run
	OnMeasurement func(servospeed.Measurement)
	// OnError is called with the message of a failed run
	OnError func(string)
}

func NewTracker() *Tracker {
	return &Tracker{
		mtx:     &sync.Mutex{},
		profile: servospeed.DefaultProfile(),
		now:     time.Now,
	}
}

// Sent records a command line sent to the device so its run count can be matched to the result
func (t *Tracker) Sent(line string) {
	c := commands.Parse(line)
	if !c.Run.Positive() {
		return
	}

	t.mtx.Lock()
	t.pending = append(t.pending, c.Run.Value)
	t.mtx.Unlock()
}

// Write implements io.Writer for device output
func (t *Tracker) Write(p []byte) (int, error) {
	var events []func()

	t.mtx.Lock()
	t.partial = append(t.partial, p...)
	for {
		i := strings.IndexByte(string(t.partial), '\n')
		if i < 0 {
			break
		}
		line := string(t.partial[:i])
		t.partial = t.partial[i+1:]

		if e := t.observe(line); e != nil {
			events = append(events, e)
		}
	}
	t.mtx.Unlock()

	for _, e := range events {
		e()
	}

	return len(p), nil
}

func (t *Tracker) observe(line string) func() {
	line = strings.TrimRight(line, "\r")
	for strings.HasPrefix(line, servospeed.Prompt) {
		line = line[len(servospeed.Prompt):]
	}

	if v, ok := profileValue(line, "rate", "Hz"); ok {
		t.profile.RateHz = v
		return nil
	}
	if v, ok := profileValue(line, "0 deg", "ms"); ok {
		t.profile.ZeroUs = v
		return nil
	}
	if v, ok := profileValue(line, "60 deg", "ms"); ok {
		t.profile.SixtyUs = v
		if t.OnProfile == nil {
			return nil
		}
		p, cb := t.profile, t.OnProfile
		return func() { cb(p) }
	}

	if rest, ok := strings.CutPrefix(line, servospeed.AverageSpeedPrefix); ok {
		avg, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return nil
		}

		m := servospeed.Measurement{
			Profile:        t.profile,
			Trials:         t.popPending(),
			AverageSeconds: avg,
			Time:           t.now(),
		}
		t.measurements = append(t.measurements, m)

		if t.OnMeasurement == nil {
			return nil
		}
		cb := t.OnMeasurement
		return func() { cb(m) }
	}

	if msg, ok := strings.CutPrefix(line, errorPrefix); ok {
		t.popPending()
		if t.OnError == nil {
			return nil
		}
		cb := t.OnError
		return func() { cb(msg) }
	}

	return nil
}

func (t *Tracker) popPending() int {
	if len(t.pending) == 0 {
		return 0
	}
	n := t.pending[0]
	t.pending = t.pending[1:]
	return n
}

// Profile returns the last profile printed by the device
func (t *Tracker) Profile() servospeed.Profile {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.profile
}

// Measurements returns a copy of every measurement seen so far
func (t *Tracker) Measurements() []servospeed.Measurement {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return append([]servospeed.Measurement(nil), t.measurements...)
}

// Summary summarizes every measurement seen so far
func (t *Tracker) Summary() Summary {
	return Summarize(t.Measurements())
}

// profileValue parses lines like "rate   - 333Hz"
func profileValue(line, label, unit string) (int, bool) {
	rest, ok := strings.CutPrefix(line, label)
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), "-")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(strings.TrimSpace(rest), unit)
	if !ok {
		return 0, false
	}

	v, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return v, true
}
