package analysis

import (
	"losscast/internal/model"
)

// ComputeSeasonalIndex averages the observed losses by calendar month and
// normalizes the results to mean 1.0, yielding a factor per month that shows
// how far above or below the overall level that month typically runs.
//
// Calendar months with no observations receive the neutral factor 1.0 and do
// not participate in the normalization.
func ComputeSeasonalIndex(series *model.LossSeries) (*model.SeasonalIndex, error) {
	if series.Len() == 0 {
		return nil, model.ErrEmptySeries
	}

	var sums [12]float64
	var counts [12]int
	for _, p := range series.Points {
		idx := int(p.Month.Month()) - 1
		sums[idx] += p.Amount.InexactFloat64()
		counts[idx]++
	}

	var means [12]float64
	observed := 0
	total := 0.0
	for i := range means {
		if counts[i] > 0 {
			means[i] = sums[i] / float64(counts[i])
			total += means[i]
			observed++
		}
	}

	grand := total / float64(observed)

	index := &model.SeasonalIndex{}
	for i := range means {
		if counts[i] > 0 && grand != 0 {
			index.Factors[i] = means[i] / grand
		} else {
			index.Factors[i] = 1
		}
	}

	return index, nil
}
