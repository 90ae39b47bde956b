// Package analysis implements the numerical core of the loss pipeline:
// moving-average smoothing, linear trend fitting, classical seasonal
// decomposition, seasonal indexing and baseline forecasting.
//
// All routines operate on float64 projections of the loss series. Positions
// where a value is undefined (for example the leading entries of a trailing
// moving average, or the edges of a centered one) carry NaN rather than a
// silently clamped value.
package analysis

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrWindowOutOfRange indicates a smoothing window below 1 or above the
	// series length. Out-of-range windows fail, they are never clamped.
	ErrWindowOutOfRange = errors.New("smoothing window out of range")

	// ErrSeriesTooShort indicates a series with too few observations for the
	// requested operation.
	ErrSeriesTooShort = errors.New("series too short")
)

// MovingAverage computes a trailing simple moving average.
//
// The result is aligned with the input: entry i is the mean of the window
// ending at i, and the first window-1 entries are NaN. A window of 1 returns
// the values unchanged.
func MovingAverage(values []float64, window int) ([]float64, error) {
	if err := checkWindow(window, len(values)); err != nil {
		return nil, err
	}

	result := make([]float64, len(values))
	for i := 0; i < window-1; i++ {
		result[i] = math.NaN()
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			result[i] = sum / float64(window)
		}
	}

	return result, nil
}

// WeightedMovingAverage computes a trailing moving average with linearly
// increasing weights, so the most recent observation in each window counts
// the most. Alignment and NaN padding match MovingAverage.
func WeightedMovingAverage(values []float64, window int) ([]float64, error) {
	if err := checkWindow(window, len(values)); err != nil {
		return nil, err
	}

	// Sum of weights 1..window.
	weightTotal := float64(window*(window+1)) / 2

	result := make([]float64, len(values))
	for i := range result {
		if i < window-1 {
			result[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := 0; j < window; j++ {
			sum += values[i-window+1+j] * float64(j+1)
		}
		result[i] = sum / weightTotal
	}

	return result, nil
}

// CenteredMovingAverage computes the centered moving average of the given
// period, the trend estimator used by classical decomposition. For even
// periods a 2xMA is used so the window stays centered, with the first and
// last values of each window taking half weight. Positions within half a
// period of either edge are NaN.
func CenteredMovingAverage(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrWindowOutOfRange, period)
	}
	if len(values) < period+1 {
		return nil, fmt.Errorf("%w: need at least %d observations for period %d, got %d",
			ErrSeriesTooShort, period+1, period, len(values))
	}

	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2

	if period%2 == 0 {
		for i := half; i < n-half; i++ {
			sum := values[i-half]*0.5 + values[i+half]*0.5
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	} else {
		for i := half; i < n-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	}

	return trend, nil
}

// LastDefined returns the last non-NaN entry of values and its index,
// or NaN and -1 if every entry is NaN.
func LastDefined(values []float64) (float64, int) {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i], i
		}
	}
	return math.NaN(), -1
}

// checkWindow validates a trailing window against the series length.
func checkWindow(window, n int) error {
	if window < 1 {
		return fmt.Errorf("%w: window must be at least 1, got %d", ErrWindowOutOfRange, window)
	}
	if window > n {
		return fmt.Errorf("%w: window %d exceeds series length %d", ErrWindowOutOfRange, window, n)
	}
	return nil
}
