// Package model defines core data types for the loss forecasting pipeline.
//
// This package contains the fundamental data structures shared by the series
// generator and the analyzer: the monthly loss series itself, the result of
// seasonal decomposition, and baseline forecast output. Persisted and reported
// loss amounts use decimal.Decimal for precise monetary values, while the
// numerical analysis operates on float64 projections of the series.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects the decomposition model relating the observed series to its
// components.
type Mode string

const (
	// Additive decomposes the series as observed = trend + seasonal + residual.
	Additive Mode = "additive"

	// Multiplicative decomposes the series as observed = trend * seasonal * residual.
	Multiplicative Mode = "multiplicative"
)

// ParseMode converts a user-supplied mode string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Additive, Multiplicative:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown decomposition mode %q (expected %q or %q)",
		s, Additive, Multiplicative)
}

// Validation errors shared by series constructors and loaders.
var (
	ErrEmptySeries      = errors.New("series contains no observations")
	ErrNonChronological = errors.New("series months are not strictly increasing")
	ErrMonthGap         = errors.New("series contains a calendar month gap")
	ErrNegativeAmount   = errors.New("series contains a negative loss amount")
)

// LossPoint is a single monthly observation: the calendar month it belongs to
// and the aggregate loss amount recorded for that month.
//
// Month is always normalized to the first day of the month at midnight UTC so
// that two points can be compared and sequenced without timezone ambiguity.
type LossPoint struct {
	Month  time.Time       `json:"month"`  // First day of the calendar month (UTC)
	Amount decimal.Decimal `json:"amount"` // Non-negative loss amount (precise decimal)
}

// LossSeries is an ordered, gapless sequence of monthly loss observations.
//
// Invariants (enforced by Validate and by the constructors in the synth and
// store packages):
//   - at least one observation
//   - months strictly increasing, exactly one observation per calendar month
//   - no gaps between consecutive months
//   - all amounts non-negative
//
// A LossSeries is created once by the generator (or loaded from its persisted
// CSV form) and treated as read-only afterwards.
type LossSeries struct {
	Points []LossPoint
}

// MonthStart normalizes an arbitrary time to the first instant of its calendar
// month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Len returns the number of observations in the series.
func (s *LossSeries) Len() int {
	return len(s.Points)
}

// FirstMonth returns the month of the earliest observation.
// The series must be non-empty.
func (s *LossSeries) FirstMonth() time.Time {
	return s.Points[0].Month
}

// LastMonth returns the month of the most recent observation.
// The series must be non-empty.
func (s *LossSeries) LastMonth() time.Time {
	return s.Points[len(s.Points)-1].Month
}

// Months returns the observation months as a slice, aligned with Values.
func (s *LossSeries) Months() []time.Time {
	months := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		months[i] = p.Month
	}
	return months
}

// Values returns the loss amounts as float64 values for numerical analysis.
//
// The decimal amounts remain the source of truth; this projection exists so
// the analysis package can run smoothing, regression and decomposition with
// ordinary floating-point arithmetic.
func (s *LossSeries) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Amount.InexactFloat64()
	}
	return values
}

// Validate checks the series invariants: non-empty, strictly increasing
// gapless months, non-negative amounts.
func (s *LossSeries) Validate() error {
	if len(s.Points) == 0 {
		return ErrEmptySeries
	}

	for i, p := range s.Points {
		if p.Amount.IsNegative() {
			return fmt.Errorf("%w: %s at %s", ErrNegativeAmount,
				p.Amount, p.Month.Format("2006-01"))
		}
		if i == 0 {
			continue
		}

		prev := s.Points[i-1].Month
		if !p.Month.After(prev) {
			return fmt.Errorf("%w: %s follows %s", ErrNonChronological,
				p.Month.Format("2006-01"), prev.Format("2006-01"))
		}
		if expected := MonthStart(prev.AddDate(0, 1, 0)); !MonthStart(p.Month).Equal(expected) {
			return fmt.Errorf("%w: expected %s after %s, got %s", ErrMonthGap,
				expected.Format("2006-01"), prev.Format("2006-01"), p.Month.Format("2006-01"))
		}
	}

	return nil
}

// DecompositionResult holds the classical decomposition of a loss series into
// trend, seasonal and residual components.
//
// The three component slices are parallel to Months and Observed. Positions
// where the centered moving-average trend is undefined (the first and last
// half-period of the series) carry NaN in Trend and Residual.
//
// Invariant: wherever Trend is defined, the components reconstruct the
// observed value — Trend+Seasonal+Residual in additive mode,
// Trend*Seasonal*Residual in multiplicative mode — within floating-point
// tolerance.
type DecompositionResult struct {
	Months   []time.Time
	Observed []float64
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Period   int
	Mode     Mode
}

// SeasonalPattern returns one period's worth of the seasonal component,
// starting at the phase of the first observation.
func (d *DecompositionResult) SeasonalPattern() []float64 {
	n := d.Period
	if n > len(d.Seasonal) {
		n = len(d.Seasonal)
	}
	pattern := make([]float64, n)
	copy(pattern, d.Seasonal[:n])
	return pattern
}

// ForecastPoint is a single predicted future observation.
type ForecastPoint struct {
	Month  time.Time       `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// ForecastResult is a baseline projection of the series beyond its last
// observed month.
//
// Points contains exactly the requested horizon count, with strictly
// increasing gapless months, the first of which directly follows the last
// observed month.
type ForecastResult struct {
	Method string          `json:"method"`
	Points []ForecastPoint `json:"points"`
}

// Horizon returns the number of forecast months.
func (f *ForecastResult) Horizon() int {
	return len(f.Points)
}

// SeasonalIndex captures the average loss level by calendar month, normalized
// so the twelve factors have mean 1.0. A factor of 1.10 for July means July
// losses run 10% above the overall monthly average.
type SeasonalIndex struct {
	// Factors is indexed by calendar month; Factors[0] is January.
	Factors [12]float64 `json:"factors"`
}

// Factor returns the normalized index value for the given calendar month.
func (si *SeasonalIndex) Factor(m time.Month) float64 {
	return si.Factors[int(m)-1]
}

// AccuracyMetrics reports forecast error against a holdout segment of the
// observed series.
type AccuracyMetrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"`
}

// AnalysisSummary is the JSON-exportable digest written by the analyzer
// alongside its textual report.
type AnalysisSummary struct {
	Observations      int              `json:"observations"`
	FirstMonth        string           `json:"first_month"`
	LastMonth         string           `json:"last_month"`
	WindowMonths      int              `json:"window_months"`
	LastSmoothedLevel float64          `json:"last_smoothed_level"`
	Mode              Mode             `json:"decomposition_mode"`
	Period            int              `json:"seasonal_period"`
	TrendSlope        float64          `json:"trend_slope_per_month"`
	SeasonalIndex     *SeasonalIndex   `json:"seasonal_index,omitempty"`
	Forecast          *ForecastResult  `json:"forecast,omitempty"`
	Holdout           *AccuracyMetrics `json:"holdout_metrics,omitempty"`
}
