package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/controller"
)

func TestCommandWriter(t *testing.T) {
	tests := []struct {
		name     string
		action   func(c *commandWriter)
		expected string
	}{
		{"Normal", func(c *commandWriter) { c.Preset(servospeed.PresetNormal) }, "normal\n"},
		{"Narrow", func(c *commandWriter) { c.Preset(servospeed.PresetNarrow) }, "narrow\n"},
		{"None", func(c *commandWriter) { c.Preset(servospeed.PresetNone) }, ""},
		{"Zero", func(c *commandWriter) { c.SetZero(1200) }, "servo_0 1200\n"},
		{"Sixty", func(c *commandWriter) { c.SetSixty(1800) }, "servo_60 1800\n"},
		{"Rate", func(c *commandWriter) { c.SetRate(200) }, "rate 200\n"},
		{"Run", func(c *commandWriter) { c.Run(7) }, "run 7\n"},
		{"Verbose", func(c *commandWriter) { c.ToggleVerbose() }, "verbose\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			c := &commandWriter{writer: out, tracker: controller.NewTracker()}
			tt.action(c)

			if out.String() != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, out.String())
			}
		})
	}
}

func TestWriteTracksRuns(t *testing.T) {
	ui := NewTesterUI()
	c := &commandWriter{writer: &bytes.Buffer{}, tracker: ui.tracker}
	c.Run(3)

	output := "> \n\nrate   - 333Hz\n0 deg  - 1500ms\n60 deg - 2100ms\naverage speed 0.12300\n> "
	n, err := ui.Write([]byte(output))
	if err != nil || n != len(output) {
		t.Fatalf("unexpected write result: %d, %v", n, err)
	}

	ms := ui.tracker.Measurements()
	if len(ms) != 1 || ms[0].Trials != 3 || ms[0].AverageSeconds != 0.123 {
		t.Errorf("unexpected measurements: %+v", ms)
	}

	expectedLines := []string{"rate   - 333Hz", "0 deg  - 1500ms", "60 deg - 2100ms", "average speed 0.12300"}
	if len(ui.lines) != len(expectedLines) {
		t.Fatalf("expected=%v, got=%v", expectedLines, ui.lines)
	}
	for i := range expectedLines {
		if ui.lines[i] != expectedLines[i] {
			t.Errorf("expected=%q, got=%q", expectedLines[i], ui.lines[i])
		}
	}
}

func TestWriteLimitsLog(t *testing.T) {
	ui := NewTesterUI()
	for i := 0; i < maxLogLines+10; i++ {
		_, _ = ui.Write([]byte("bad command <x>\n"))
	}
	if len(ui.lines) != maxLogLines {
		t.Errorf("expected=%d, got=%d", maxLogLines, len(ui.lines))
	}
}

func TestFormat(t *testing.T) {
	p := servospeed.DefaultProfile()
	if formatProfile(p) != "0 deg 1500us  60 deg 2100us  333Hz" {
		t.Errorf("unexpected profile format: %q", formatProfile(p))
	}

	tests := []struct {
		name     string
		input    servospeed.Measurement
		expected string
	}{
		{
			"KnownTrials",
			servospeed.Measurement{Profile: p, Trials: 5, AverageSeconds: 0.123},
			"Last: 0.12300s over 5 trials (0 deg 1500us  60 deg 2100us  333Hz)",
		},
		{
			"UnknownTrials",
			servospeed.Measurement{Profile: p, AverageSeconds: 0.1},
			"Last: 0.10000s over ? trials (0 deg 1500us  60 deg 2100us  333Hz)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMeasurement(tt.input)
			if got != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, got)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	got := formatElapsed(61*time.Second + 250*time.Millisecond)
	if got != "01:01.250" {
		t.Errorf("expected=%s, got=%s", "01:01.250", got)
	}
}

func TestState(t *testing.T) {
	if stateIdle.next() != stateRunning || stateRunning.next() != stateIdle {
		t.Errorf("unexpected state transitions")
	}
	if stateRunning.String() != "Running" {
		t.Errorf("expected=%s, got=%s", "Running", stateRunning.String())
	}
}
