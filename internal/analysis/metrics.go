package analysis

import (
	"fmt"
	"math"

	"losscast/internal/model"
)

// Metrics computes forecast accuracy against actual observations: root mean
// squared error, mean absolute error, and mean absolute percentage error.
// Only the overlapping prefix of the two slices is scored.
func Metrics(actual, predicted []float64) model.AccuracyMetrics {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	if n == 0 {
		return model.AccuracyMetrics{}
	}

	var sse, sae, sape float64
	for i := 0; i < n; i++ {
		d := actual[i] - predicted[i]
		sse += d * d
		sae += math.Abs(d)
		if actual[i] != 0 {
			sape += math.Abs(d) / math.Abs(actual[i]) * 100
		}
	}

	return model.AccuracyMetrics{
		RMSE: math.Sqrt(sse / float64(n)),
		MAE:  sae / float64(n),
		MAPE: sape / float64(n),
	}
}

// EvaluateHoldout scores a forecast configuration by fitting on all but the
// last holdout observations and forecasting the held-out tail.
func EvaluateHoldout(series *model.LossSeries, cfg ForecastConfig, holdout int) (*model.AccuracyMetrics, error) {
	if holdout <= 0 {
		return nil, fmt.Errorf("%w: holdout must be positive, got %d", ErrHorizonNotPositive, holdout)
	}
	if series.Len() <= holdout {
		return nil, fmt.Errorf("%w: holdout %d leaves no training data for %d observations",
			ErrSeriesTooShort, holdout, series.Len())
	}

	split := series.Len() - holdout
	train := &model.LossSeries{Points: series.Points[:split]}
	test := &model.LossSeries{Points: series.Points[split:]}

	cfg.Horizon = holdout
	forecast, err := Forecast(train, cfg)
	if err != nil {
		return nil, err
	}

	predicted := make([]float64, len(forecast.Points))
	for i, p := range forecast.Points {
		predicted[i] = p.Amount.InexactFloat64()
	}

	metrics := Metrics(test.Values(), predicted)
	return &metrics, nil
}
