package ticks

import (
	"math"
	"testing"
	"time"
)

// stepCounter advances by step every time it is read
type stepCounter struct {
	value uint32
	step  uint32
	reads int
}

func (s *stepCounter) Now() uint32 {
	v := s.value
	s.value += s.step
	s.reads++
	return v
}

func TestSince(t *testing.T) {
	tests := []struct {
		name     string
		start    uint32
		now      uint32
		expected uint32
	}{
		{"NoWrap", 100, 350, 250},
		{"Equal", 42, 42, 0},
		{"WrapAtMax", math.MaxUint32, 0, 1},
		{"WrapAcrossZero", math.MaxUint32 - 9, 10, 20},
		{"AlmostFullPeriod", 1, 0, math.MaxUint32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Since(tt.start, tt.now)
			if got != tt.expected {
				t.Errorf("expected=%d, got=%d", tt.expected, got)
			}
		})
	}
}

func TestReached(t *testing.T) {
	tests := []struct {
		name     string
		deadline uint32
		now      uint32
		expected bool
	}{
		{"Before", 1000, 999, false},
		{"Exact", 1000, 1000, true},
		{"After", 1000, 1001, true},
		// deadline wrapped past zero but now has not yet
		{"DeadlineWrapped", 5, math.MaxUint32 - 5, false},
		{"BothWrapped", 5, 6, true},
		// a plain now >= deadline comparison would report this as reached
		{"NowHighDeadlineLow", 10, math.MaxUint32, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reached(tt.deadline, tt.now)
			if got != tt.expected {
				t.Errorf("expected=%v, got=%v", tt.expected, got)
			}
		})
	}
}

func TestElapsedAcrossWrap(t *testing.T) {
	c := &stepCounter{value: math.MaxUint32 - 99, step: 150}
	clock := NewClock(c, 1000)

	start := clock.Now()
	got := clock.Elapsed(start)
	if got != 150 {
		t.Errorf("expected=%d, got=%d", 150, got)
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name     string
		hz       uint32
		d        time.Duration
		expected uint64
	}{
		{"Millisecond72MHz", 72_000_000, time.Millisecond, 72_000},
		{"HalfSecond1MHz", 1_000_000, 500 * time.Millisecond, 500_000},
		{"Negative", 1_000_000, -time.Second, 0},
		{"Truncates", 1000, 1500 * time.Microsecond, 1},
		{"LongDelay", 72_000_000, 100 * time.Second, 7_200_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewClock(&stepCounter{}, tt.hz)
			got := clock.Ticks(tt.d)
			if got != tt.expected {
				t.Errorf("expected=%d, got=%d", tt.expected, got)
			}
		})
	}
}

func TestDelay(t *testing.T) {
	tests := []struct {
		name  string
		start uint32
		step  uint32
		hz    uint32
		d     time.Duration
	}{
		{"Simple", 0, 1, 1000, 50 * time.Millisecond},
		{"WrapMidWait", math.MaxUint32 - 10, 1, 1000, 50 * time.Millisecond},
		{"WrapWithBigSteps", math.MaxUint32 - 1000, 997, 1_000_000, 20 * time.Millisecond},
		{"StartAtMax", math.MaxUint32, 3, 72_000, 10 * time.Millisecond},
		{"Zero", 123, 1, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stepCounter{value: tt.start, step: tt.step}
			clock := NewClock(c, tt.hz)

			clock.Delay(tt.d)

			// value holds the next reading, so the last observed reading is one step behind
			var observed uint64
			if c.reads > 0 {
				observed = uint64(Since(tt.start, c.value-tt.step))
			}
			want := clock.Ticks(tt.d)
			if observed < want {
				t.Errorf("returned early: expected at least %d ticks, got %d", want, observed)
			}
			if observed > want+2*uint64(tt.step) {
				t.Errorf("waited too long: expected about %d ticks, got %d", want, observed)
			}
		})
	}
}

func TestDelayLongerThanHalfPeriod(t *testing.T) {
	// 1 tick per read at 1Hz would take too many reads, so use a big step instead
	c := &stepCounter{value: math.MaxUint32 - 5, step: 1 << 20}
	clock := NewClock(c, 1_000_000)

	d := 3000 * time.Second
	clock.Delay(d)

	want := clock.Ticks(d)
	expectedReads := int(want / (1 << 20))
	if c.reads < expectedReads {
		t.Errorf("expected at least %d reads, got %d", expectedReads, c.reads)
	}
}

func TestMonotonicStartAt(t *testing.T) {
	m := NewMonotonic(time.Microsecond)
	if m.Hz() != 1_000_000 {
		t.Errorf("expected=%d, got=%d", 1_000_000, m.Hz())
	}

	m.StartAt(math.MaxUint32 - 10)
	first := m.Now()
	time.Sleep(2 * time.Millisecond)
	elapsed := Since(first, m.Now())
	if elapsed < 2000 {
		t.Errorf("expected at least 2000 ticks, got %d", elapsed)
	}
	if elapsed > uint32(time.Second/time.Microsecond) {
		t.Errorf("unexpected elapsed ticks after wrap: %d", elapsed)
	}
}

func TestFunc(t *testing.T) {
	var v uint32 = 7
	c := Func(func() uint32 { v++; return v })
	if got := c.Now(); got != 8 {
		t.Errorf("expected=%d, got=%d", 8, got)
	}
}
