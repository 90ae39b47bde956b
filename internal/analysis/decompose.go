package analysis

import (
	"fmt"
	"math"

	"losscast/internal/model"
)

// Decompose performs classical seasonal decomposition of a loss series.
//
// The trend is estimated with a centered moving average over the period, the
// seasonal component by averaging the detrended values within each period
// phase (centered to mean zero in additive mode, normalized to mean one in
// multiplicative mode), and the residual is whatever remains. The series must
// cover at least two full periods.
//
// Trend and residual are NaN within half a period of the series edges, where
// the centered moving average is undefined; everywhere else the components
// reconstruct the observed value exactly up to floating-point error.
func Decompose(series *model.LossSeries, period int, mode model.Mode) (*model.DecompositionResult, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrWindowOutOfRange, period)
	}

	values := series.Values()
	n := len(values)
	if n < 2*period {
		return nil, fmt.Errorf("%w: decomposition with period %d needs at least %d observations, got %d",
			ErrSeriesTooShort, period, 2*period, n)
	}

	if mode != model.Additive && mode != model.Multiplicative {
		mode = model.Additive
	}

	trend, err := CenteredMovingAverage(values, period)
	if err != nil {
		return nil, err
	}

	// Detrend.
	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case mode == model.Multiplicative:
			if trend[i] == 0 {
				detrended[i] = math.NaN()
			} else {
				detrended[i] = values[i] / trend[i]
			}
		default:
			detrended[i] = values[i] - trend[i]
		}
	}

	// Average the detrended values within each period phase.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(detrended[i]) {
			continue
		}
		phase := i % period
		pattern[phase] += detrended[i]
		counts[phase]++
	}
	for i := 0; i < period; i++ {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		} else if mode == model.Multiplicative {
			pattern[i] = 1
		}
	}

	// Center (additive) or normalize (multiplicative) the pattern so the
	// seasonal component carries no net level.
	sum := 0.0
	for _, v := range pattern {
		sum += v
	}
	mean := sum / float64(period)
	for i := range pattern {
		if mode == model.Multiplicative {
			if mean != 0 {
				pattern[i] /= mean
			}
		} else {
			pattern[i] -= mean
		}
	}

	// Tile the pattern across the series and compute residuals.
	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case mode == model.Multiplicative:
			if trend[i] == 0 || seasonal[i] == 0 {
				residual[i] = math.NaN()
			} else {
				residual[i] = values[i] / (trend[i] * seasonal[i])
			}
		default:
			residual[i] = values[i] - trend[i] - seasonal[i]
		}
	}

	return &model.DecompositionResult{
		Months:   series.Months(),
		Observed: values,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
		Mode:     mode,
	}, nil
}
