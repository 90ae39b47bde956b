// Package store persists loss series and analysis summaries.
//
// The generator writes the series as a two-column CSV (date, loss) which the
// analyzer reads back; this file is the only artifact shared between the two
// steps. The analyzer additionally exports its summary as JSON.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"losscast/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoData indicates a CSV with no parseable loss observations.
	ErrNoData = errors.New("no valid data found in CSV")
)

// dateFormats lists the accepted layouts for the date column, tried in order.
var dateFormats = []string{
	"2006-01-02",
	"2006-01",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// WriteSeries persists a loss series as CSV at the given path, creating
// parent directories as needed.
func WriteSeries(series *model.LossSeries, path string) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid series: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := WriteSeriesTo(series, file); err != nil {
		return err
	}

	log.Info().
		Str("path", path).
		Int("observations", series.Len()).
		Msg("wrote loss series")

	return nil
}

// WriteSeriesTo writes the CSV form of a series to an arbitrary writer.
func WriteSeriesTo(series *model.LossSeries, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"date", "loss"}); err != nil {
		return err
	}
	for _, p := range series.Points {
		record := []string{p.Month.Format("2006-01-02"), p.Amount.String()}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadSeries loads a loss series from a CSV file written by WriteSeries.
//
// A missing file surfaces the underlying not-found error so the caller can
// report that the generator has not been run yet.
func ReadSeries(path string) (*model.LossSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series file: %w", err)
	}
	defer file.Close()

	series, err := ReadSeriesFrom(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("observations", series.Len()).
		Msg("loaded loss series")

	return series, nil
}

// ReadSeriesFrom parses the CSV form of a series from an arbitrary reader.
//
// Rows are sorted chronologically before validation, matching the original
// artifact's loose ordering guarantees. The parsed series must satisfy all
// LossSeries invariants (gapless months, non-negative amounts).
func ReadSeriesFrom(r io.Reader) (*model.LossSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var points []model.LossPoint
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("malformed row %v: expected date,loss", record)
		}

		// Skip a header row if present.
		if first {
			first = false
			if _, err := parseDate(record[0]); err != nil {
				continue
			}
		}

		month, err := parseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", record[0], err)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("bad loss amount %q: %w", record[1], err)
		}

		points = append(points, model.LossPoint{
			Month:  model.MonthStart(month),
			Amount: amount,
		})
	}

	if len(points) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})

	series := &model.LossSeries{Points: points}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	return series, nil
}

// parseDate tries each accepted layout in turn.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
