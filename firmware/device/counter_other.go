//go:build tinygo && !rp2040

package device

import (
	"time"

	"github.com/calvinmclean/servospeed/ticks"
)

const counterHz = 1_000_000

var counter = ticks.NewMonotonic(time.Microsecond)
