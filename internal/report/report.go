// Package report renders the analyzer's results as a plain-text report.
//
// The report is written to a single io.Writer and covers the observed series,
// the smoothed tail, a decomposition snapshot, the seasonal index by calendar
// month, the baseline forecast and (when requested) holdout accuracy.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"losscast/internal/analysis"
	"losscast/internal/model"
)

const rule = 72

// Report bundles everything the renderer needs.
type Report struct {
	Series        *model.LossSeries
	Smoothed      []float64
	Window        int
	Decomposition *model.DecompositionResult
	Trend         analysis.TrendLine
	SeasonalIndex *model.SeasonalIndex
	Forecast      *model.ForecastResult
	Holdout       *model.AccuracyMetrics
}

// Render writes the full report.
func Render(w io.Writer, r *Report) error {
	var b strings.Builder

	writeHeader(&b, r.Series)
	writeSmoothed(&b, r)
	writeDecomposition(&b, r.Decomposition)
	writeTrend(&b, r.Trend)
	writeSeasonalIndex(&b, r.SeasonalIndex)
	writeForecast(&b, r.Forecast)
	writeHoldout(&b, r.Holdout)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeHeader(b *strings.Builder, series *model.LossSeries) {
	section(b, "Monthly Losses (Synthetic)")
	values := series.Values()
	fmt.Fprintf(b, "Observations: %d (%s .. %s)\n",
		series.Len(),
		series.FirstMonth().Format("2006-01"),
		series.LastMonth().Format("2006-01"))
	fmt.Fprintf(b, "Min: %s   Max: %s   Mean: %s\n",
		money(minOf(values)), money(maxOf(values)), money(meanOf(values)))
}

func writeSmoothed(b *strings.Builder, r *Report) {
	if r.Smoothed == nil {
		return
	}
	section(b, fmt.Sprintf("Smoothing (%d-month rolling mean)", r.Window))

	// Show the last few smoothed levels; the full sequence lives in the
	// exported summary.
	months := r.Series.Months()
	tail := len(r.Smoothed) - 6
	if tail < 0 {
		tail = 0
	}
	for i := tail; i < len(r.Smoothed); i++ {
		if math.IsNaN(r.Smoothed[i]) {
			continue
		}
		fmt.Fprintf(b, "  %s  %s\n", months[i].Format("2006-01"), money(r.Smoothed[i]))
	}
}

func writeDecomposition(b *strings.Builder, d *model.DecompositionResult) {
	if d == nil {
		return
	}
	section(b, fmt.Sprintf("Decomposition (%s, period=%d)", d.Mode, d.Period))
	fmt.Fprintf(b, "  %-9s %14s %14s %14s %14s\n",
		"month", "observed", "trend", "seasonal", "residual")

	// One period centered on the middle of the series, where the trend is
	// fully defined.
	start := len(d.Months)/2 - d.Period/2
	if start < 0 {
		start = 0
	}
	end := start + d.Period
	if end > len(d.Months) {
		end = len(d.Months)
	}
	for i := start; i < end; i++ {
		fmt.Fprintf(b, "  %-9s %14s %14s %14s %14s\n",
			d.Months[i].Format("2006-01"),
			money(d.Observed[i]), money(d.Trend[i]),
			money(d.Seasonal[i]), money(d.Residual[i]))
	}
}

func writeTrend(b *strings.Builder, line analysis.TrendLine) {
	section(b, "Fitted trend line")
	fmt.Fprintf(b, "  level(t) = %s + %s * t\n", money(line.Intercept), money(line.Slope))
	fmt.Fprintf(b, "  slope: %s per month\n", money(line.Slope))
}

func writeSeasonalIndex(b *strings.Builder, idx *model.SeasonalIndex) {
	if idx == nil {
		return
	}
	section(b, "Seasonal Index by Month (normalized to mean 1.0)")
	for m := time.January; m <= time.December; m++ {
		factor := idx.Factor(m)
		fmt.Fprintf(b, "  %-9s %6.3f  %s\n", m.String(), factor, bar(factor))
	}
}

func writeForecast(b *strings.Builder, f *model.ForecastResult) {
	if f == nil {
		return
	}
	section(b, fmt.Sprintf("Baseline Forecast (method=%s, horizon=%d)", f.Method, f.Horizon()))
	for _, p := range f.Points {
		fmt.Fprintf(b, "  %s  %14s\n", p.Month.Format("2006-01"), p.Amount.StringFixed(2))
	}
}

func writeHoldout(b *strings.Builder, m *model.AccuracyMetrics) {
	if m == nil {
		return
	}
	section(b, "Holdout accuracy")
	fmt.Fprintf(b, "  RMSE: %s   MAE: %s   MAPE: %.2f%%\n",
		money(m.RMSE), money(m.MAE), m.MAPE)
}

func section(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("=", rule))
	b.WriteByte('\n')
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", rule))
	b.WriteByte('\n')
}

// bar renders a crude magnitude bar for seasonal factors around 1.0.
func bar(factor float64) string {
	n := int(math.Round(factor * 20))
	if n < 0 {
		n = 0
	}
	if n > 40 {
		n = 40
	}
	return strings.Repeat("#", n)
}

func money(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
