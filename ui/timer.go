package ui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

const timerInterval = 64 * time.Millisecond

// timer shows how long the current run has taken. The host clock only measures the whole run
// including settling, the device reports the transition times
type timer struct {
	startTime time.Time
	running   bool
	mtx       *sync.Mutex
	text      *canvas.Text
	stop      chan struct{}
}

func newTimer() *timer {
	return &timer{
		mtx:  &sync.Mutex{},
		text: canvas.NewText(formatElapsed(0), nil),
		stop: make(chan struct{}),
	}
}

func (t *timer) Start(start time.Time) {
	t.mtx.Lock()
	t.startTime = start
	t.running = true
	t.mtx.Unlock()
}

// Pause freezes the display at the current elapsed time
func (t *timer) Pause() {
	t.mtx.Lock()
	t.running = false
	t.mtx.Unlock()
}

func (t *timer) Stop() {
	close(t.stop)
}

func (t *timer) Go() {
	go func() {
		ticker := time.NewTicker(timerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
			}

			t.mtx.Lock()
			running, start := t.running, t.startTime
			t.mtx.Unlock()
			if !running {
				continue
			}

			fyne.Do(func() {
				t.text.Text = formatElapsed(time.Since(start))
				t.text.Refresh()
			})
		}
	}()
}

func formatElapsed(elapsed time.Duration) string {
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	millis := int(elapsed.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}
