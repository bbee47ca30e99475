package commands

import (
	"strings"
	"testing"

	"github.com/calvinmclean/servospeed"
)

func TestParsePresets(t *testing.T) {
	tests := []struct {
		line     string
		preset   servospeed.Preset
		expected servospeed.Profile
	}{
		{"narrow", servospeed.PresetNarrow, servospeed.Profile{ZeroUs: 780, SixtyUs: 400, RateHz: 560}},
		{"normal\r\n", servospeed.PresetNormal, servospeed.Profile{ZeroUs: 1500, SixtyUs: 2100, RateHz: 333}},
		{"narrow\n", servospeed.PresetNarrow, servospeed.Profile{ZeroUs: 780, SixtyUs: 400, RateHz: 560}},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.line), func(t *testing.T) {
			c := Parse(tt.line)
			if c.Preset != tt.preset {
				t.Errorf("expected=%v, got=%v", tt.preset, c.Preset)
			}
			if c.Preset.Profile() != tt.expected {
				t.Errorf("expected=%+v, got=%+v", tt.expected, c.Preset.Profile())
			}
			if c.Unrecognized || c.Zero.Set || c.Sixty.Set || c.Rate.Set || c.Run.Set {
				t.Errorf("expected only the preset, got=%+v", c)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		zero         Field
		sixty        Field
		rate         Field
		run          Field
		unrecognized bool
	}{
		{
			name: "Zero",
			line: "servo_0 900",
			zero: Field{900, true},
		},
		{
			name:  "Sixty",
			line:  "servo_60 2000\n",
			sixty: Field{2000, true},
		},
		{
			name: "Rate",
			line: "rate 400",
			rate: Field{400, true},
		},
		{
			name: "Run",
			line: "run 5\r\n",
			run:  Field{5, true},
		},
		{
			name: "ZeroAndRate",
			line: "servo_0 900 rate 400",
			zero: Field{900, true},
			rate: Field{400, true},
		},
		{
			name:  "AllFields",
			line:  "run 3 servo_60 2200 rate 300 servo_0 1400",
			zero:  Field{1400, true},
			sixty: Field{2200, true},
			rate:  Field{300, true},
			run:   Field{3, true},
		},
		{
			name:  "TypoInOneField",
			line:  "servo_0 abc servo_60 1900",
			sixty: Field{1900, true},
		},
		{
			name: "Negative",
			line: "rate -5",
			rate: Field{-5, true},
		},
		{
			name: "TrailingJunk",
			line: "run 10x",
			run:  Field{10, true},
		},
		{
			name: "ExtraWhitespace",
			line: "  servo_0\t\t700  ",
			zero: Field{700, true},
		},
		{
			name:         "Bogus",
			line:         "bogus text",
			unrecognized: true,
		},
		{
			name:         "Empty",
			line:         "\n",
			unrecognized: true,
		},
		{
			name:         "KeyWithoutValue",
			line:         "servo_0",
			unrecognized: true,
		},
		{
			name:         "KeyIsPrefix",
			line:         "servo_00 100",
			unrecognized: true,
		},
		{
			name:         "PresetNotWholeLine",
			line:         "narrow please",
			unrecognized: true,
		},
		{
			name:         "Overflow",
			line:         "run 99999999999999999999999",
			unrecognized: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.line)
			if c.Zero != tt.zero {
				t.Errorf("zero: expected=%+v, got=%+v", tt.zero, c.Zero)
			}
			if c.Sixty != tt.sixty {
				t.Errorf("sixty: expected=%+v, got=%+v", tt.sixty, c.Sixty)
			}
			if c.Rate != tt.rate {
				t.Errorf("rate: expected=%+v, got=%+v", tt.rate, c.Rate)
			}
			if c.Run != tt.run {
				t.Errorf("run: expected=%+v, got=%+v", tt.run, c.Run)
			}
			if c.Unrecognized != tt.unrecognized {
				t.Errorf("unrecognized: expected=%v, got=%v", tt.unrecognized, c.Unrecognized)
			}
			if c.Preset != servospeed.PresetNone {
				t.Errorf("expected no preset, got=%v", c.Preset)
			}
		})
	}
}

func TestParseKeepsLine(t *testing.T) {
	c := Parse("bogus text\r\n")
	if !c.Unrecognized {
		t.Fatal("expected unrecognized")
	}
	if c.Line != "bogus text" {
		t.Errorf("expected=%q, got=%q", "bogus text", c.Line)
	}
}

func TestParseKeywords(t *testing.T) {
	if c := Parse("help"); !c.Help || c.Unrecognized {
		t.Errorf("expected help, got=%+v", c)
	}
	if c := Parse("verbose\n"); !c.Verbose || c.Unrecognized {
		t.Errorf("expected verbose, got=%+v", c)
	}
}

func TestFieldPositive(t *testing.T) {
	tests := []struct {
		f        Field
		expected bool
	}{
		{Field{}, false},
		{Field{Value: 5}, false},
		{Field{Value: 0, Set: true}, false},
		{Field{Value: -1, Set: true}, false},
		{Field{Value: 1, Set: true}, true},
	}
	for _, tt := range tests {
		if got := tt.f.Positive(); got != tt.expected {
			t.Errorf("%+v: expected=%v, got=%v", tt.f, tt.expected, got)
		}
	}
}

func TestHelp(t *testing.T) {
	lines := Help()
	if len(lines) != len(keywords)+len(extractors) {
		t.Fatalf("expected=%d, got=%d", len(keywords)+len(extractors), len(lines))
	}
	if !strings.HasPrefix(lines[0], "narrow: ") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "run <n>: ") {
		t.Errorf("unexpected last line: %q", lines[len(lines)-1])
	}
}
