/*
Package main implements the synthetic loss data generator.

The generator produces a gapless monthly insurance loss series combining a
linear trend, an annual seasonal cycle, Gaussian noise and occasional
catastrophe-like spikes, then persists it as CSV for the analyzer to consume.
Output is deterministic for a fixed seed, which keeps the whole pipeline
reproducible without distributing any real claims data.

Usage:

	go run main.go -months=72 -seed=7 -out=data/monthly_losses.csv

Trend, seasonality, noise and shock parameters are all adjustable via flags;
the defaults match the stock 72-month demonstration series.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"losscast/internal/store"
	"losscast/internal/synth"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Command-line flags for configuring the generated series
var (
	// months is the number of monthly observations to generate
	months = flag.Int("months", 72, "Number of months to generate")
	// seed fixes the random source; equal seeds produce equal series
	seed = flag.Int64("seed", 7, "Random seed")
	// start is the first calendar month of the series
	start = flag.String("start", "2019-01", "First month (YYYY-MM)")
	// base is the loss level at the first month before trend and seasonality
	base = flag.Float64("base", 100000, "Base loss level")
	// slope is the linear trend increment per month
	slope = flag.Float64("slope", 1200, "Trend slope per month")
	// sinAmp and cosAmp shape the annual seasonal cycle
	sinAmp = flag.Float64("sin-amp", 15000, "Seasonal sine amplitude")
	cosAmp = flag.Float64("cos-amp", 8000, "Seasonal cosine amplitude")
	// period is the seasonal cycle length in months
	period = flag.Int("period", 12, "Seasonal period in months")
	// noise is the standard deviation of the monthly Gaussian noise
	noise = flag.Float64("noise", 9000, "Noise standard deviation")
	// spikeProb, spikeMean and spikeStd parameterize rare shock losses
	spikeProb = flag.Float64("spike-prob", 0.06, "Per-month spike probability")
	spikeMean = flag.Float64("spike-mean", 45000, "Spike mean magnitude")
	spikeStd  = flag.Float64("spike-std", 18000, "Spike standard deviation")
	// out is the CSV path the series is written to
	out = flag.String("out", "data/monthly_losses.csv", "Output CSV path")
)

// main is the entry point of the generator. It validates the flag
// configuration, generates the series and persists it as CSV.
func main() {
	flag.Parse()

	// Initialize structured logger with timestamp and info level
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	startMonth, err := validateConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	cfg := synth.Config{
		StartMonth:   startMonth,
		Months:       *months,
		Seed:         *seed,
		BaseLevel:    *base,
		TrendSlope:   *slope,
		SinAmplitude: *sinAmp,
		CosAmplitude: *cosAmp,
		Period:       *period,
		NoiseStdDev:  *noise,
		SpikeProb:    *spikeProb,
		SpikeMean:    *spikeMean,
		SpikeStdDev:  *spikeStd,
	}

	generator, err := synth.New(&cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure generator")
	}

	series, err := generator.Generate()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate series")
	}

	if err := store.WriteSeries(series, *out); err != nil {
		log.Fatal().Err(err).Msg("failed to persist series")
	}

	log.Info().
		Str("out", *out).
		Int("months", series.Len()).
		Int64("seed", *seed).
		Str("first", series.FirstMonth().Format("2006-01")).
		Str("last", series.LastMonth().Format("2006-01")).
		Msg("series generated")
}

// validateConfig performs validation of command-line configuration parameters
// before any work starts, and parses the start month.
//
// Returns the parsed start month, or an error if any validation fails.
func validateConfig() (time.Time, error) {
	if *months <= 0 {
		return time.Time{}, fmt.Errorf("months must be greater than 0, got %d", *months)
	}
	if *period <= 0 {
		return time.Time{}, fmt.Errorf("period must be greater than 0, got %d", *period)
	}
	if *out == "" {
		return time.Time{}, fmt.Errorf("output path cannot be empty")
	}

	startMonth, err := time.Parse("2006-01", *start)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start month %q: %w", *start, err)
	}

	return startMonth, nil
}
