package pins

// Input is a digital input that can be polled. machine.Pin implements it
type Input interface {
	Get() bool
}

// Output is a digital output. machine.Pin implements it
type Output interface {
	Set(bool)
}

// Completion reads the signal that reports whether the servo is still moving
type Completion struct {
	pin       Input
	activeLow bool
}

// NewCompletion creates a Completion. When activeLow is set a low level means "still moving"
func NewCompletion(pin Input, activeLow bool) Completion {
	return Completion{pin: pin, activeLow: activeLow}
}

// Asserted polls the current level. It has no side effects and can be called in a tight loop
func (c Completion) Asserted() bool {
	return c.pin.Get() != c.activeLow
}

// Indicator is an LED or similar output that marks a trial in progress
type Indicator struct {
	pin       Output
	activeLow bool
}

// NewIndicator creates an Indicator. The Blue Pill style on-board LED is active low
func NewIndicator(pin Output, activeLow bool) Indicator {
	return Indicator{pin: pin, activeLow: activeLow}
}

// On turns the indicator on
func (i Indicator) On() {
	i.pin.Set(!i.activeLow)
}

// Off turns the indicator off
func (i Indicator) Off() {
	i.pin.Set(i.activeLow)
}
