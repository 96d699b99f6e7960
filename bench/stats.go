package bench

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the successful trials of a campaign
type Summary struct {
	Trials      int
	Successes   int
	SuccessRate float64

	TimeMean   time.Duration
	TimeStdDev time.Duration
	TimeMin    time.Duration
	TimeMax    time.Duration

	LengthMean   float64
	LengthStdDev float64
	LengthMin    float64
	LengthMax    float64

	OptimizedMean float64
}

// Summarize computes campaign statistics over the successful trials. Failed
// trials count toward the success rate only.
func Summarize(c *Campaign) Summary {
	s := Summary{Trials: len(c.Trials)}

	var times, lengths, optimized []float64
	for _, trial := range c.Trials {
		if !trial.Success {
			continue
		}
		s.Successes++
		times = append(times, float64(trial.Duration))
		lengths = append(lengths, trial.Length)
		optimized = append(optimized, trial.Optimized)
	}
	if s.Trials > 0 {
		s.SuccessRate = float64(s.Successes) / float64(s.Trials)
	}
	if s.Successes == 0 {
		return s
	}

	s.TimeMean = time.Duration(stat.Mean(times, nil))
	s.TimeMin = time.Duration(floats.Min(times))
	s.TimeMax = time.Duration(floats.Max(times))

	s.LengthMean = stat.Mean(lengths, nil)
	s.LengthMin = floats.Min(lengths)
	s.LengthMax = floats.Max(lengths)
	s.OptimizedMean = stat.Mean(optimized, nil)

	// StdDev is NaN for a single sample
	if s.Successes > 1 {
		s.TimeStdDev = time.Duration(stat.StdDev(times, nil))
		s.LengthStdDev = stat.StdDev(lengths, nil)
	}
	return s
}
