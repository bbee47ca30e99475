package ui

import (
	"fmt"
	"io"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/commands"
	"github.com/calvinmclean/servospeed/controller"
)

// commandWriter turns button presses into console lines
type commandWriter struct {
	writer  io.Writer
	tracker *controller.Tracker
}

func (c *commandWriter) send(line string) {
	c.tracker.Sent(line)
	fmt.Fprintf(c.writer, "%s\n", line)
}

func (c *commandWriter) Preset(p servospeed.Preset) {
	if p == servospeed.PresetNone {
		return
	}
	c.send(p.String())
}

func (c *commandWriter) SetZero(us int) {
	c.send(fmt.Sprintf("%s %d", commands.ZeroExtractor.Key, us))
}

func (c *commandWriter) SetSixty(us int) {
	c.send(fmt.Sprintf("%s %d", commands.SixtyExtractor.Key, us))
}

func (c *commandWriter) SetRate(hz int) {
	c.send(fmt.Sprintf("%s %d", commands.RateExtractor.Key, hz))
}

func (c *commandWriter) Run(n int) {
	c.send(fmt.Sprintf("%s %d", commands.RunExtractor.Key, n))
}

func (c *commandWriter) ToggleVerbose() {
	c.send(commands.VerboseKeyword.Word)
}
