package analysis

import (
	"fmt"
	"math"
)

// TrendLine is an ordinary least-squares fit of the series against its month
// offsets: value(t) ≈ Intercept + Slope*t, with t=0 at the first observation.
type TrendLine struct {
	Slope     float64
	Intercept float64
}

// At evaluates the fitted line at month offset t. Offsets past the end of the
// observed series extrapolate the trend forward.
func (tl TrendLine) At(t int) float64 {
	return tl.Intercept + tl.Slope*float64(t)
}

// FitTrendLine fits a least-squares line through the values, skipping NaN
// entries. At least two defined observations are required.
func FitTrendLine(values []float64) (TrendLine, error) {
	var n, sumT, sumY, sumTT, sumTY float64

	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		t := float64(i)
		n++
		sumT += t
		sumY += v
		sumTT += t * t
		sumTY += t * v
	}

	if n < 2 {
		return TrendLine{}, fmt.Errorf("%w: need at least 2 defined observations to fit a trend, got %d",
			ErrSeriesTooShort, int(n))
	}

	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return TrendLine{}, fmt.Errorf("%w: degenerate time axis", ErrSeriesTooShort)
	}

	slope := (n*sumTY - sumT*sumY) / denom
	intercept := (sumY - slope*sumT) / n

	return TrendLine{Slope: slope, Intercept: intercept}, nil
}
