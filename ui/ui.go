// Package ui is a desktop front end for the console. It sends commands for button presses and
// follows the device output to show the profile and results
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/controller"
)

const maxLogLines = 200

// TesterUI implements io.Writer so device output can be copied to it
type TesterUI struct {
	tracker *controller.Tracker

	mtx   *sync.Mutex
	state state
	lines []string

	// widgets are nil until Window creates them
	profileLabel *widget.Label
	lastLabel    *widget.Label
	summaryLabel *widget.Label
	stateLabel   *widget.Label
	runButton    *widget.Button
	logContent   *widget.Label
	runTimer     *timer
}

func NewTesterUI() *TesterUI {
	ui := &TesterUI{
		tracker: controller.NewTracker(),
		mtx:     &sync.Mutex{},
	}

	ui.tracker.OnProfile = func(p servospeed.Profile) {
		ui.update(func() {
			ui.profileLabel.SetText(formatProfile(p))
		})
	}
	ui.tracker.OnMeasurement = func(m servospeed.Measurement) {
		summary := ui.tracker.Summary()
		ui.finishRun()
		ui.update(func() {
			ui.lastLabel.SetText(formatMeasurement(m))
			ui.summaryLabel.SetText(summary.String())
		})
	}
	ui.tracker.OnError = func(msg string) {
		ui.finishRun()
		ui.update(func() {
			ui.lastLabel.SetText("Error: " + msg)
		})
	}

	return ui
}

// Write implements io.Writer
func (ui *TesterUI) Write(p []byte) (int, error) {
	ui.mtx.Lock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" && line != strings.TrimSpace(servospeed.Prompt) {
			ui.lines = append(ui.lines, line)
		}
	}
	if len(ui.lines) > maxLogLines {
		ui.lines = ui.lines[len(ui.lines)-maxLogLines:]
	}
	text := strings.Join(ui.lines, "\n")
	ui.mtx.Unlock()

	ui.update(func() {
		ui.logContent.SetText(text)
	})

	return ui.tracker.Write(p)
}

// update runs fn on the UI goroutine once the window exists
func (ui *TesterUI) update(fn func()) {
	ui.mtx.Lock()
	ready := ui.logContent != nil
	ui.mtx.Unlock()
	if !ready {
		return
	}
	fyne.Do(fn)
}

func (ui *TesterUI) startRun() {
	ui.mtx.Lock()
	if ui.state == stateRunning {
		ui.mtx.Unlock()
		return
	}
	ui.state = ui.state.next()
	s := ui.state
	ui.mtx.Unlock()

	ui.runTimer.Start(time.Now())
	ui.runButton.Disable()
	ui.stateLabel.SetText(s.String())
}

func (ui *TesterUI) finishRun() {
	ui.mtx.Lock()
	if ui.state != stateRunning {
		ui.mtx.Unlock()
		return
	}
	ui.state = ui.state.next()
	s := ui.state
	ui.mtx.Unlock()

	ui.update(func() {
		ui.runTimer.Pause()
		ui.runButton.Enable()
		ui.stateLabel.SetText(s.String())
	})
}

func createValueEntry(labelText string, initial int, onSet func(int)) *fyne.Container {
	entry := widget.NewEntry()
	entry.SetText(strconv.Itoa(initial))
	entry.OnSubmitted = func(s string) {
		number, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || number <= 0 {
			fmt.Println("Invalid input. Please enter a positive number.")
			return
		}
		onSet(number)
	}

	setButton := widget.NewButton("Set", func() {
		entry.OnSubmitted(entry.Text)
	})

	return container.NewGridWithColumns(3,
		widget.NewLabel(labelText),
		entry,
		setButton,
	)
}

func (ui *TesterUI) createLogAccordion() *widget.Accordion {
	logScroll := container.NewVScroll(ui.logContent)
	logScroll.SetMinSize(fyne.NewSize(300, 150))

	return widget.NewAccordion(
		widget.NewAccordionItem("Console", logScroll),
	)
}

// Window creates the tester window in an existing application
func (ui *TesterUI) Window(application fyne.App, w io.Writer) fyne.Window {
	window := application.NewWindow("Servo Speed Tester")

	cmds := &commandWriter{writer: w, tracker: ui.tracker}
	profile := servospeed.DefaultProfile()

	ui.mtx.Lock()
	ui.profileLabel = widget.NewLabel(formatProfile(profile))
	ui.lastLabel = widget.NewLabel("No runs yet")
	ui.summaryLabel = widget.NewLabel(controller.Summary{}.String())
	ui.stateLabel = widget.NewLabel(stateIdle.String())
	ui.logContent = widget.NewLabel("")
	ui.runTimer = newTimer()
	ui.mtx.Unlock()

	ui.runTimer.Go()
	window.SetOnClosed(ui.runTimer.Stop)

	presets := container.NewGridWithColumns(2,
		widget.NewButton("Normal", func() { cmds.Preset(servospeed.PresetNormal) }),
		widget.NewButton("Narrow", func() { cmds.Preset(servospeed.PresetNarrow) }),
	)

	runEntry := widget.NewEntry()
	runEntry.SetText("5")
	ui.runButton = widget.NewButton("Run", func() {
		n, err := strconv.Atoi(strings.TrimSpace(runEntry.Text))
		if err != nil || n <= 0 {
			fmt.Println("Invalid input. Please enter a positive number of trials.")
			return
		}
		ui.startRun()
		cmds.Run(n)
	})

	contentContainer := container.NewVBox(
		container.NewHBox(
			container.NewPadded(ui.stateLabel),
			layout.NewSpacer(),
			container.NewPadded(ui.runTimer.text),
		),
		ui.profileLabel,
		presets,
		createValueEntry("0 deg (us)", profile.ZeroUs, cmds.SetZero),
		createValueEntry("60 deg (us)", profile.SixtyUs, cmds.SetSixty),
		createValueEntry("Rate (Hz)", profile.RateHz, cmds.SetRate),
		container.NewGridWithColumns(3,
			widget.NewLabel("Trials"),
			runEntry,
			ui.runButton,
		),
		widget.NewButton("Toggle Verbose", cmds.ToggleVerbose),
		ui.lastLabel,
		ui.summaryLabel,
		ui.createLogAccordion(),
	)

	window.SetContent(contentContainer)
	window.Resize(fyne.NewSize(360, 400))
	return window
}

func formatProfile(p servospeed.Profile) string {
	return fmt.Sprintf("0 deg %dus  60 deg %dus  %dHz", p.ZeroUs, p.SixtyUs, p.RateHz)
}

func formatMeasurement(m servospeed.Measurement) string {
	trials := "?"
	if m.Trials > 0 {
		trials = strconv.Itoa(m.Trials)
	}
	return fmt.Sprintf("Last: %.5fs over %s trials (%s)", m.AverageSeconds, trials, formatProfile(m.Profile))
}
