package controller

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/calvinmclean/servospeed"
)

// Summary describes a set of runs. Mean and StdDev are weighted by the number of trials in each run
type Summary struct {
	Runs   int
	Trials int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func (s Summary) String() string {
	if s.Runs == 0 {
		return "no runs"
	}
	return fmt.Sprintf(
		"%d runs (%d trials): mean %.5f stddev %.5f min %.5f max %.5f",
		s.Runs, s.Trials, s.Mean, s.StdDev, s.Min, s.Max,
	)
}

// Summarize computes a Summary. Runs without a known trial count are weighted as one trial
func Summarize(ms []servospeed.Measurement) Summary {
	if len(ms) == 0 {
		return Summary{}
	}

	xs := make([]float64, len(ms))
	weights := make([]float64, len(ms))
	trials := 0
	for i, m := range ms {
		xs[i] = m.AverageSeconds
		weights[i] = float64(max(m.Trials, 1))
		trials += m.Trials
	}

	s := Summary{
		Runs:   len(ms),
		Trials: trials,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}

	if len(ms) == 1 {
		s.Mean = xs[0]
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(xs, weights)
	return s
}
