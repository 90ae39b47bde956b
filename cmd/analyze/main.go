/*
Package main implements the loss series analyzer.

The analyzer loads the CSV written by the generator and computes a
moving-average smoothing, a classical trend/seasonal/residual decomposition,
a seasonal index by calendar month and a baseline forecast for a configurable
horizon. Results are printed as a plain-text report on stdout and exported as
a JSON summary; structured logs go to stderr.

Usage:

	go run main.go -csv=data/monthly_losses.csv -window=6 -horizon=6

Running the analyzer before the generator fails with the underlying
file-not-found error.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"losscast/internal/analysis"
	"losscast/internal/model"
	"losscast/internal/report"
	"losscast/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Command-line flags for configuring the analysis
var (
	// csvPath locates the series produced by the generator
	csvPath = flag.String("csv", "data/monthly_losses.csv", "Input CSV path")
	// window is the rolling-mean smoothing window in months
	window = flag.Int("window", 6, "Smoothing window in months")
	// horizon is the number of future months to forecast
	horizon = flag.Int("horizon", 6, "Forecast horizon in months")
	// period is the seasonal cycle length in months
	period = flag.Int("period", 12, "Seasonal period in months")
	// mode selects additive or multiplicative decomposition
	mode = flag.String("mode", "additive", "Decomposition mode (additive|multiplicative)")
	// method selects the baseline forecast rule
	method = flag.String("method", "seasonal-trend", "Forecast method (level|trend|seasonal-trend)")
	// holdout withholds the last N months to score the forecast rule
	holdout = flag.Int("holdout", 0, "Holdout months for accuracy metrics (0 disables)")
	// summaryPath is where the JSON summary is exported
	summaryPath = flag.String("summary", "data/summary.json", "Summary JSON output path")
)

// main is the entry point of the analyzer. It loads the persisted series,
// runs the analysis pipeline and emits the report and summary.
func main() {
	flag.Parse()

	// Initialize structured logger with timestamp and info level
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	decompMode, forecastMethod, err := validateConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	series, err := store.ReadSeries(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load series (run the generator first?)")
	}

	smoothed, err := analysis.MovingAverage(series.Values(), *window)
	if err != nil {
		log.Fatal().Err(err).Msg("smoothing failed")
	}

	decomposition, err := analysis.Decompose(series, *period, decompMode)
	if err != nil {
		log.Fatal().Err(err).Msg("decomposition failed")
	}

	trendLine, err := analysis.FitTrendLine(series.Values())
	if err != nil {
		log.Fatal().Err(err).Msg("trend fit failed")
	}

	seasonalIndex, err := analysis.ComputeSeasonalIndex(series)
	if err != nil {
		log.Fatal().Err(err).Msg("seasonal index failed")
	}

	forecastCfg := analysis.ForecastConfig{
		Horizon: *horizon,
		Method:  forecastMethod,
		Window:  *window,
		Period:  *period,
		Mode:    decompMode,
	}
	forecast, err := analysis.Forecast(series, forecastCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("forecast failed")
	}

	var metrics *model.AccuracyMetrics
	if *holdout > 0 {
		metrics, err = analysis.EvaluateHoldout(series, forecastCfg, *holdout)
		if err != nil {
			log.Fatal().Err(err).Msg("holdout evaluation failed")
		}
	}

	if err := report.Render(os.Stdout, &report.Report{
		Series:        series,
		Smoothed:      smoothed,
		Window:        *window,
		Decomposition: decomposition,
		Trend:         trendLine,
		SeasonalIndex: seasonalIndex,
		Forecast:      forecast,
		Holdout:       metrics,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to render report")
	}

	lastLevel, _ := analysis.LastDefined(smoothed)
	summary := &model.AnalysisSummary{
		Observations:      series.Len(),
		FirstMonth:        series.FirstMonth().Format("2006-01"),
		LastMonth:         series.LastMonth().Format("2006-01"),
		WindowMonths:      *window,
		LastSmoothedLevel: lastLevel,
		Mode:              decompMode,
		Period:            *period,
		TrendSlope:        trendLine.Slope,
		SeasonalIndex:     seasonalIndex,
		Forecast:          forecast,
		Holdout:           metrics,
	}
	if err := store.WriteSummary(summary, *summaryPath); err != nil {
		log.Fatal().Err(err).Msg("failed to export summary")
	}

	log.Info().
		Int("window", *window).
		Int("horizon", *horizon).
		Str("method", string(forecastMethod)).
		Float64("last_smoothed_level", lastLevel).
		Msg("analysis complete")
}

// validateConfig performs validation of command-line configuration parameters
// and parses the enumerated options.
//
// Returns the parsed decomposition mode and forecast method, or an error if
// any validation fails.
func validateConfig() (model.Mode, analysis.Method, error) {
	if *csvPath == "" {
		return "", "", fmt.Errorf("csv path cannot be empty")
	}
	if *window < 1 {
		return "", "", fmt.Errorf("window must be at least 1, got %d", *window)
	}
	if *horizon <= 0 {
		return "", "", fmt.Errorf("horizon must be greater than 0, got %d", *horizon)
	}
	if *period <= 0 {
		return "", "", fmt.Errorf("period must be greater than 0, got %d", *period)
	}
	if *holdout < 0 {
		return "", "", fmt.Errorf("holdout cannot be negative, got %d", *holdout)
	}

	decompMode, err := model.ParseMode(*mode)
	if err != nil {
		return "", "", err
	}

	forecastMethod, err := analysis.ParseMethod(*method)
	if err != nil {
		return "", "", err
	}

	return decompMode, forecastMethod, nil
}
