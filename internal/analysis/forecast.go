package analysis

import (
	"errors"
	"fmt"
	"math"

	"losscast/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrHorizonNotPositive indicates a forecast horizon of zero or less.
	ErrHorizonNotPositive = errors.New("forecast horizon must be positive")

	// ErrUnknownMethod indicates an unrecognized forecast method name.
	ErrUnknownMethod = errors.New("unknown forecast method")
)

// Method identifies a baseline forecast rule.
type Method string

const (
	// MethodLevel repeats the last smoothed level for every future month.
	MethodLevel Method = "level"

	// MethodTrend extrapolates the fitted least-squares trend line.
	MethodTrend Method = "trend"

	// MethodSeasonalTrend extrapolates the trend line and re-applies the
	// decomposed seasonal component at each future month's phase.
	MethodSeasonalTrend Method = "seasonal-trend"
)

// ParseMethod converts a user-supplied method name into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodLevel, MethodTrend, MethodSeasonalTrend:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q (expected %q, %q or %q)",
		ErrUnknownMethod, s, MethodLevel, MethodTrend, MethodSeasonalTrend)
}

// ForecastConfig parameterizes a baseline forecast.
type ForecastConfig struct {
	// Horizon is the number of future months to predict.
	Horizon int

	// Method selects the baseline rule; MethodSeasonalTrend if empty.
	Method Method

	// Window is the smoothing window used by MethodLevel.
	Window int

	// Period is the seasonal cycle length used by MethodSeasonalTrend.
	Period int

	// Mode selects additive or multiplicative seasonality for
	// MethodSeasonalTrend; additive if empty.
	Mode model.Mode
}

// Forecast produces a baseline projection of the series.
//
// The result contains exactly cfg.Horizon points with gapless months strictly
// following the last observed month. Predicted amounts are clamped at zero;
// a negative projected loss has no meaning.
func Forecast(series *model.LossSeries, cfg ForecastConfig) (*model.ForecastResult, error) {
	if cfg.Horizon <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrHorizonNotPositive, cfg.Horizon)
	}
	if series.Len() == 0 {
		return nil, model.ErrEmptySeries
	}

	method := cfg.Method
	if method == "" {
		method = MethodSeasonalTrend
	}

	predict, err := buildPredictor(series, method, cfg)
	if err != nil {
		return nil, err
	}

	n := series.Len()
	last := series.LastMonth()
	points := make([]model.ForecastPoint, 0, cfg.Horizon)

	for h := 1; h <= cfg.Horizon; h++ {
		value := predict(n - 1 + h)
		if value < 0 || math.IsNaN(value) {
			value = 0
		}
		points = append(points, model.ForecastPoint{
			Month:  last.AddDate(0, h, 0),
			Amount: decimal.NewFromFloat(value).Round(2),
		})
	}

	return &model.ForecastResult{
		Method: string(method),
		Points: points,
	}, nil
}

// buildPredictor returns a function mapping month offsets (t=0 at the first
// observation) to predicted values for the chosen method.
func buildPredictor(series *model.LossSeries, method Method, cfg ForecastConfig) (func(int) float64, error) {
	switch method {
	case MethodLevel:
		window := cfg.Window
		if window <= 0 {
			window = 1
		}
		smoothed, err := MovingAverage(series.Values(), window)
		if err != nil {
			return nil, err
		}
		level, idx := LastDefined(smoothed)
		if idx < 0 {
			return nil, fmt.Errorf("%w: smoothed series has no defined values", ErrSeriesTooShort)
		}
		return func(int) float64 { return level }, nil

	case MethodTrend:
		line, err := FitTrendLine(series.Values())
		if err != nil {
			return nil, err
		}
		return func(t int) float64 { return line.At(t) }, nil

	case MethodSeasonalTrend:
		period := cfg.Period
		if period <= 0 {
			period = 12
		}
		decomp, err := Decompose(series, period, cfg.Mode)
		if err != nil {
			return nil, err
		}

		// Fit the trend on the deseasonalized series; fitting the raw values
		// would let partial seasonal cycles bias the slope.
		values := series.Values()
		deseasonalized := make([]float64, len(values))
		for i, v := range values {
			if decomp.Mode == model.Multiplicative {
				if decomp.Seasonal[i] == 0 {
					deseasonalized[i] = math.NaN()
				} else {
					deseasonalized[i] = v / decomp.Seasonal[i]
				}
			} else {
				deseasonalized[i] = v - decomp.Seasonal[i]
			}
		}
		line, err := FitTrendLine(deseasonalized)
		if err != nil {
			return nil, err
		}

		seasonal := decomp.SeasonalPattern()
		multiplicative := decomp.Mode == model.Multiplicative
		return func(t int) float64 {
			s := seasonal[t%period]
			if multiplicative {
				return line.At(t) * s
			}
			return line.At(t) + s
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}
