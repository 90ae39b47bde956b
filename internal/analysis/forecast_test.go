package analysis

import (
	"math"
	"testing"
	"time"

	"losscast/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Forecast_HorizonAndMonths(t *testing.T) {
	series := seriesFrom(testStart, syntheticSeasonal(48, 100000, 1200, 15000, 12))

	tests := []struct {
		name    string
		horizon int
	}{
		{"Single month ahead", 1},
		{"Half a year", 6},
		{"Two full years", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Forecast(series, ForecastConfig{
				Horizon: tt.horizon,
				Method:  MethodSeasonalTrend,
				Period:  12,
			})
			require.NoError(t, err)

			require.Equal(t, tt.horizon, result.Horizon(),
				"Forecast must contain exactly the requested number of months")

			expected := series.LastMonth().AddDate(0, 1, 0)
			for _, p := range result.Points {
				assert.Equal(t, expected, p.Month,
					"Forecast months must be gapless and strictly follow the last observation")
				expected = expected.AddDate(0, 1, 0)
				assert.False(t, p.Amount.IsNegative(), "Predicted losses cannot be negative")
			}
		})
	}
}

func Test_Forecast_InvalidHorizon(t *testing.T) {
	series := seriesFrom(testStart, syntheticSeasonal(36, 1000, 5, 100, 12))

	for _, horizon := range []int{0, -1, -12} {
		_, err := Forecast(series, ForecastConfig{Horizon: horizon, Method: MethodTrend})
		assert.ErrorIs(t, err, ErrHorizonNotPositive, "Horizon %d must be rejected", horizon)
	}
}

func Test_Forecast_LevelMethod(t *testing.T) {
	values := []float64{100, 200, 300, 400, 500, 600}
	series := seriesFrom(testStart, values)

	result, err := Forecast(series, ForecastConfig{
		Horizon: 3,
		Method:  MethodLevel,
		Window:  3,
	})
	require.NoError(t, err)

	// Last 3-month rolling mean is (400+500+600)/3 = 500, repeated flat.
	for _, p := range result.Points {
		assert.InDelta(t, 500, p.Amount.InexactFloat64(), 0.005,
			"Level forecast repeats the last smoothed level")
	}
	assert.Equal(t, string(MethodLevel), result.Method)
}

func Test_Forecast_TrendMethod(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = 1000 + 5*float64(i)
	}
	series := seriesFrom(testStart, values)

	result, err := Forecast(series, ForecastConfig{Horizon: 4, Method: MethodTrend})
	require.NoError(t, err)

	for h, p := range result.Points {
		expected := 1000 + 5*float64(24+h)
		assert.InDelta(t, expected, p.Amount.InexactFloat64(), 0.005,
			"Trend forecast continues the fitted line at step %d", h+1)
	}
}

func Test_Forecast_SeasonalTrendMethod(t *testing.T) {
	// On a clean trend+sine series the default method should continue both
	// the line and the cycle closely.
	base, slope, amp := 100000.0, 1200.0, 15000.0
	n, period := 48, 12
	series := seriesFrom(testStart, syntheticSeasonal(n, base, slope, amp, period))

	result, err := Forecast(series, ForecastConfig{
		Horizon: period,
		Method:  MethodSeasonalTrend,
		Period:  period,
	})
	require.NoError(t, err)

	for h, p := range result.Points {
		tt := n + h
		expected := base + slope*float64(tt) + amp*math.Sin(2*math.Pi*float64(tt)/float64(period))
		relErr := math.Abs(p.Amount.InexactFloat64()-expected) / expected
		assert.Less(t, relErr, 0.01,
			"Seasonal-trend forecast should stay within 1%% of the clean signal at step %d", h+1)
	}
}

func Test_Forecast_DefaultMethod(t *testing.T) {
	series := seriesFrom(testStart, syntheticSeasonal(36, 1000, 5, 100, 12))

	result, err := Forecast(series, ForecastConfig{Horizon: 2, Period: 12})
	require.NoError(t, err)
	assert.Equal(t, string(MethodSeasonalTrend), result.Method,
		"Seasonal-trend is the default when no method is set")
}

func Test_Forecast_EmptySeries(t *testing.T) {
	_, err := Forecast(&model.LossSeries{}, ForecastConfig{Horizon: 3, Method: MethodTrend})
	assert.ErrorIs(t, err, model.ErrEmptySeries)
}

func Test_Forecast_ClampsNegativePredictions(t *testing.T) {
	// A steeply falling trend would project below zero; predictions clamp.
	values := make([]float64, 12)
	for i := range values {
		values[i] = math.Max(0, 1000-200*float64(i))
	}
	series := seriesFrom(testStart, values)

	result, err := Forecast(series, ForecastConfig{Horizon: 6, Method: MethodTrend})
	require.NoError(t, err)

	last := result.Points[len(result.Points)-1]
	assert.True(t, last.Amount.IsZero(), "Below-zero projections clamp to zero")
}

func Test_ParseMethod(t *testing.T) {
	for _, valid := range []string{"level", "trend", "seasonal-trend"} {
		m, err := ParseMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, Method(valid), m)
	}

	_, err := ParseMethod("arima")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func Test_Forecast_MonthsCrossYearBoundary(t *testing.T) {
	start := time.Date(2020, time.September, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFrom(start, syntheticSeasonal(28, 1000, 5, 100, 12))

	result, err := Forecast(series, ForecastConfig{Horizon: 3, Method: MethodTrend})
	require.NoError(t, err)

	// Series ends 2022-12; forecast starts 2023-01.
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), result.Points[0].Month)
	assert.Equal(t, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), result.Points[2].Month)
}
