package commands

import (
	"strconv"
	"strings"

	"github.com/calvinmclean/servospeed"
)

// Field is an integer that may or may not have been found on a command line
type Field struct {
	Value int
	Set   bool
}

// Positive reports whether the field was found with a value that should be applied
func (f Field) Positive() bool {
	return f.Set && f.Value > 0
}

// Command is everything parsed from one console line
type Command struct {
	Zero  Field
	Sixty Field
	Rate  Field
	Run   Field

	Preset  servospeed.Preset
	Help    bool
	Verbose bool

	// Unrecognized is set when no keyword and no field matched. Line holds the input without its
	// line terminator for the error message
	Unrecognized bool
	Line         string
}

// Extractor finds "<Key> <integer>" anywhere on a line
type Extractor struct {
	Key         string
	Input       string
	Description string
	field       func(*Command) *Field
}

// Keyword is a command that must match the whole line
type Keyword struct {
	Word        string
	Description string
	apply       func(*Command)
}

var (
	ZeroExtractor = &Extractor{
		Key:         "servo_0",
		Input:       "<us>",
		Description: "Set the zero position pulse width in microseconds and move there.",
		field:       func(c *Command) *Field { return &c.Zero },
	}
	SixtyExtractor = &Extractor{
		Key:         "servo_60",
		Input:       "<us>",
		Description: "Set the sixty degree pulse width in microseconds and move there.",
		field:       func(c *Command) *Field { return &c.Sixty },
	}
	RateExtractor = &Extractor{
		Key:         "rate",
		Input:       "<hz>",
		Description: "Set the refresh rate used for the next run.",
		field:       func(c *Command) *Field { return &c.Rate },
	}
	RunExtractor = &Extractor{
		Key:         "run",
		Input:       "<n>",
		Description: "Time n transitions from zero to sixty degrees and print the average.",
		field:       func(c *Command) *Field { return &c.Run },
	}

	NarrowKeyword = &Keyword{
		Word:        "narrow",
		Description: "Use the narrow preset: 780us/400us at 560Hz.",
		apply:       func(c *Command) { c.Preset = servospeed.PresetNarrow },
	}
	NormalKeyword = &Keyword{
		Word:        "normal",
		Description: "Use the normal preset: 1500us/2100us at 333Hz.",
		apply:       func(c *Command) { c.Preset = servospeed.PresetNormal },
	}
	HelpKeyword = &Keyword{
		Word:        "help",
		Description: "Show all available commands and their descriptions.",
		apply:       func(c *Command) { c.Help = true },
	}
	VerboseKeyword = &Keyword{
		Word:        "verbose",
		Description: "Toggle per-trial output.",
		apply:       func(c *Command) { c.Verbose = true },
	}
)

var keywords = []*Keyword{
	NarrowKeyword,
	NormalKeyword,
	HelpKeyword,
	VerboseKeyword,
}

var extractors = []*Extractor{
	ZeroExtractor,
	SixtyExtractor,
	RateExtractor,
	RunExtractor,
}

// Parse reads one console line. Whole-line keywords win. Otherwise every extractor is tried
// against the whole line, so "servo_0 900 rate 400" sets both fields
func Parse(line string) Command {
	line = strings.TrimRight(line, "\r\n")
	c := Command{Line: line}

	for _, kw := range keywords {
		if line == kw.Word {
			kw.apply(&c)
			return c
		}
	}

	matched := 0
	for _, e := range extractors {
		v, ok := e.Extract(line)
		if !ok {
			continue
		}
		*e.field(&c) = Field{Value: v, Set: true}
		matched++
	}

	c.Unrecognized = matched == 0
	return c
}

// Extract returns the integer after the first whole-word occurrence of Key that is followed by
// one. Trailing characters after the digits are ignored
func (e *Extractor) Extract(line string) (int, bool) {
	words := strings.Fields(line)
	for i := 0; i+1 < len(words); i++ {
		if words[i] != e.Key {
			continue
		}
		v, ok := leadingInt(words[i+1])
		if ok {
			return v, true
		}
	}
	return 0, false
}

// Help returns one line per command for the console
func Help() []string {
	lines := make([]string, 0, len(keywords)+len(extractors))
	for _, kw := range keywords {
		lines = append(lines, kw.Word+": "+kw.Description)
	}
	for _, e := range extractors {
		lines = append(lines, e.Key+" "+e.Input+": "+e.Description)
	}
	return lines
}

func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
