package analysis

import (
	"math"
	"testing"
	"time"

	"losscast/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seriesFrom builds a gapless monthly loss series from float values,
// starting at the given month.
func seriesFrom(start time.Time, values []float64) *model.LossSeries {
	points := make([]model.LossPoint, len(values))
	for i, v := range values {
		points[i] = model.LossPoint{
			Month:  model.MonthStart(start).AddDate(0, i, 0),
			Amount: decimal.NewFromFloat(v),
		}
	}
	return &model.LossSeries{Points: points}
}

// syntheticSeasonal builds base + slope*t + amp*sin(2πt/period) over n months.
func syntheticSeasonal(n int, base, slope, amp float64, period int) []float64 {
	values := make([]float64, n)
	for t := 0; t < n; t++ {
		values[t] = base + slope*float64(t) + amp*math.Sin(2*math.Pi*float64(t)/float64(period))
	}
	return values
}

var testStart = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

func Test_Decompose_AdditiveReconstruction(t *testing.T) {
	series := seriesFrom(testStart, syntheticSeasonal(48, 100000, 1200, 15000, 12))

	result, err := Decompose(series, 12, model.Additive)
	require.NoError(t, err)
	require.Equal(t, 48, len(result.Trend))

	defined := 0
	for i := range result.Observed {
		if math.IsNaN(result.Trend[i]) {
			assert.True(t, math.IsNaN(result.Residual[i]),
				"Residual must be undefined wherever trend is")
			continue
		}
		defined++
		reconstructed := result.Trend[i] + result.Seasonal[i] + result.Residual[i]
		relErr := math.Abs(reconstructed-result.Observed[i]) / math.Abs(result.Observed[i])
		assert.Less(t, relErr, 1e-6,
			"Additive components must reconstruct the observation at index %d", i)
	}
	assert.Equal(t, 48-12, defined, "Trend is defined outside half a period of each edge")
}

func Test_Decompose_MultiplicativeReconstruction(t *testing.T) {
	// A multiplicative series: trend level scaled by a seasonal factor.
	n, period := 48, 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		level := 100000 + 1200*float64(i)
		factor := 1 + 0.15*math.Sin(2*math.Pi*float64(i)/float64(period))
		values[i] = level * factor
	}
	series := seriesFrom(testStart, values)

	result, err := Decompose(series, period, model.Multiplicative)
	require.NoError(t, err)

	for i := range result.Observed {
		if math.IsNaN(result.Trend[i]) {
			continue
		}
		reconstructed := result.Trend[i] * result.Seasonal[i] * result.Residual[i]
		relErr := math.Abs(reconstructed-result.Observed[i]) / math.Abs(result.Observed[i])
		assert.Less(t, relErr, 1e-6,
			"Multiplicative components must reconstruct the observation at index %d", i)
	}
}

func Test_Decompose_SeasonalPatternProperties(t *testing.T) {
	series := seriesFrom(testStart, syntheticSeasonal(60, 50000, 800, 10000, 12))

	additive, err := Decompose(series, 12, model.Additive)
	require.NoError(t, err)

	// The additive seasonal pattern is centered: one period sums to ~0.
	sum := 0.0
	for _, v := range additive.SeasonalPattern() {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-6, "Additive seasonal pattern must be centered on zero")

	// The pattern tiles across the series with the configured period.
	for i := 12; i < 60; i++ {
		assert.Equal(t, additive.Seasonal[i-12], additive.Seasonal[i],
			"Seasonal component repeats every period")
	}

	// On a clean sine the recovered seasonal should track the input shape.
	peakPhase := 3 // sin peaks a quarter period in
	assert.InDelta(t, 10000, additive.Seasonal[peakPhase], 500,
		"Recovered seasonal amplitude should be close to the generating amplitude")
}

func Test_Decompose_MultiplicativePatternNormalized(t *testing.T) {
	n, period := 48, 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = (80000 + 500*float64(i)) * (1 + 0.2*math.Cos(2*math.Pi*float64(i)/float64(period)))
	}
	series := seriesFrom(testStart, values)

	result, err := Decompose(series, period, model.Multiplicative)
	require.NoError(t, err)

	sum := 0.0
	for _, v := range result.SeasonalPattern() {
		sum += v
	}
	assert.InDelta(t, 1, sum/float64(period), 1e-6,
		"Multiplicative seasonal factors must be normalized to mean one")
}

func Test_Decompose_Errors(t *testing.T) {
	short := seriesFrom(testStart, syntheticSeasonal(20, 1000, 1, 10, 12))

	_, err := Decompose(short, 12, model.Additive)
	assert.ErrorIs(t, err, ErrSeriesTooShort, "Fewer than two periods cannot be decomposed")

	_, err = Decompose(short, 0, model.Additive)
	assert.ErrorIs(t, err, ErrWindowOutOfRange, "Period must be positive")
}

func Test_Decompose_DefaultsToAdditive(t *testing.T) {
	series := seriesFrom(testStart, syntheticSeasonal(36, 1000, 5, 100, 12))

	result, err := Decompose(series, 12, "")
	require.NoError(t, err)
	assert.Equal(t, model.Additive, result.Mode)
}

func Test_FitTrendLine(t *testing.T) {
	// Pure linear data recovers slope and intercept exactly.
	values := make([]float64, 24)
	for i := range values {
		values[i] = 1000 + 5*float64(i)
	}

	line, err := FitTrendLine(values)
	require.NoError(t, err)
	assert.InDelta(t, 5, line.Slope, 1e-9)
	assert.InDelta(t, 1000, line.Intercept, 1e-9)
	assert.InDelta(t, 1000+5*30, line.At(30), 1e-9, "At extrapolates beyond the data")

	// NaN entries are skipped, not propagated.
	values[3] = math.NaN()
	line, err = FitTrendLine(values)
	require.NoError(t, err)
	assert.InDelta(t, 5, line.Slope, 1e-9)

	_, err = FitTrendLine([]float64{1})
	assert.ErrorIs(t, err, ErrSeriesTooShort)

	_, err = FitTrendLine([]float64{math.NaN(), math.NaN(), 3})
	assert.ErrorIs(t, err, ErrSeriesTooShort)
}
