package calculator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary mirrors the classic count/mean/std/min/quartiles/max description of a column.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe summarizes values. Std is the sample standard deviation (NaN for fewer
// than two values); quartiles use linear interpolation between closest ranks.
// An empty input yields Count 0 and NaN elsewhere.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Q25:   quantile(sorted, 0.25),
		Q50:   quantile(sorted, 0.50),
		Q75:   quantile(sorted, 0.75),
	}
	if len(sorted) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean, s.Std = sorted[0], math.NaN()
	}
	return s
}

// quantile expects sorted input.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Range returns the lowest Low and highest High across bars' lows and highs.
func Range(lows, highs []float64) (low, high float64) {
	low, high = math.Inf(1), math.Inf(-1)
	for _, v := range lows {
		if v < low {
			low = v
		}
	}
	for _, v := range highs {
		if v > high {
			high = v
		}
	}
	return low, high
}
