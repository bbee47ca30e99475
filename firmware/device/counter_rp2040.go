//go:build tinygo && rp2040

package device

import (
	"runtime/volatile"
	"unsafe"

	"github.com/calvinmclean/servospeed/ticks"
)

// timerRawL is the low word of the RP2040's free running 1MHz timer. Reading it does not latch the
// high word
const timerRawL = 0x40054028

const counterHz = 1_000_000

var counter = ticks.Func(func() uint32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(timerRawL))).Get()
})
